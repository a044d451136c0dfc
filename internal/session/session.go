// Package session establishes and restores a logged-in identity across
// requests. The session cookie carries a signed JWT with the user id; every
// restore resolves the id against the user store, so a deleted user is
// simply unauthenticated. Flash messages and the pending-redirect path ride
// in their own short-lived cookies.
package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mdimitrov/photoblog/internal/models"
	"github.com/mdimitrov/photoblog/internal/store"
)

const (
	sessionCookie = "session"
	flashCookie   = "flash"
	returnCookie  = "return_to"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so a
// caller cannot probe which emails are registered.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Flash struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

type Manager struct {
	users  store.Users
	secret []byte
	ttl    time.Duration
}

func NewManager(users store.Users, secret string, ttl time.Duration) *Manager {
	return &Manager{users: users, secret: []byte(secret), ttl: ttl}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate looks the user up by email and verifies the password.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := m.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Issue sets a session cookie for the given user.
func (m *Manager) Issue(w http.ResponseWriter, user *models.User) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
		UserID: user.ID,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current restores the identity for a request. Any failure along the way
// (missing cookie, bad signature, expired token, unknown user) is treated
// as unauthenticated, never surfaced as an error.
func (m *Manager) Current(r *http.Request) *models.User {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	cl := &claims{}
	token, err := jwt.ParseWithClaims(c.Value, cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || cl.UserID == "" {
		return nil
	}
	user, err := m.users.GetUserByID(r.Context(), cl.UserID)
	if err != nil {
		return nil
	}
	return user
}

// Clear ends the session.
func (m *Manager) Clear(w http.ResponseWriter) {
	expire(w, sessionCookie)
}

// AddFlashes queues one-shot messages for the next rendered page.
func AddFlashes(w http.ResponseWriter, r *http.Request, flashes ...Flash) {
	all := append(readFlashes(r), flashes...)
	data, err := json.Marshal(all)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlashes returns queued messages and clears them.
func TakeFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) > 0 {
		expire(w, flashCookie)
	}
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}

// RememberPath records the originally requested path for replay after the
// auth detour.
func RememberPath(w http.ResponseWriter, path string) {
	if !safePath(path) {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     returnCookie,
		Value:    path,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeReturnPath consumes the pending-redirect cookie. Returns "" when there
// is nothing to return to.
func TakeReturnPath(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(returnCookie)
	if err != nil || !safePath(c.Value) {
		return ""
	}
	expire(w, returnCookie)
	return c.Value
}

// safePath admits only local absolute paths, keeping the redirect on-site.
func safePath(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//")
}

func expire(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
