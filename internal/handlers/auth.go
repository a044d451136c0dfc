package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/mdimitrov/photoblog/internal/middleware"
	"github.com/mdimitrov/photoblog/internal/models"
	"github.com/mdimitrov/photoblog/internal/session"
	"github.com/mdimitrov/photoblog/internal/store"
)

const minPasswordLength = 6

type AuthHandler struct {
	users    store.Users
	sessions *session.Manager
	admins   map[string]bool
	log      *slog.Logger
}

func NewAuthHandler(users store.Users, sessions *session.Manager, adminEmails []string, log *slog.Logger) *AuthHandler {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(email)] = true
	}
	return &AuthHandler{users: users, sessions: sessions, admins: admins, log: log}
}

func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, PageData{Flashes: session.TakeFlashes(w, r)})
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, PageData{Flashes: session.TakeFlashes(w, r)})
}

func validateCredentials(email, password string) []session.Flash {
	var flashes []session.Flash
	if _, err := mail.ParseAddress(email); err != nil {
		flashes = append(flashes, session.Flash{Level: "error", Text: "a valid email is required"})
	}
	if len(password) < minPasswordLength {
		flashes = append(flashes, session.Flash{Level: "error", Text: "password must be at least 6 characters"})
	}
	return flashes
}

// Signup validates input, rejects duplicate emails, then creates the user
// and signs them in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if flashes := validateCredentials(email, password); len(flashes) > 0 {
		session.AddFlashes(w, r, flashes...)
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	_, err := h.users.GetUserByEmail(r.Context(), email)
	if err == nil {
		respondError(w, http.StatusConflict, "a user with that email already exists")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		h.log.Error("signup lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	hash, err := session.HashPassword(password)
	if err != nil {
		h.log.Error("password hash failed", "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	user, err := h.users.CreateUser(r.Context(), models.User{
		Email:        email,
		PasswordHash: hash,
		Admin:        h.admins[email],
	})
	if err != nil {
		h.log.Error("create user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		h.log.Error("issue session failed", "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.redirectAfterAuth(w, r)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	user, err := h.sessions.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			session.AddFlashes(w, r, session.Flash{Level: "error", Text: "invalid email or password"})
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.log.Error("login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		h.log.Error("issue session failed", "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.redirectAfterAuth(w, r)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, PageData{
		User:    middleware.UserFrom(r.Context()),
		Flashes: session.TakeFlashes(w, r),
	})
}

// redirectAfterAuth replays the originally requested page, falling back to
// the dashboard.
func (h *AuthHandler) redirectAfterAuth(w http.ResponseWriter, r *http.Request) {
	target := session.TakeReturnPath(w, r)
	if target == "" {
		target = "/dashboard"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
