package handlers

import (
	"github.com/go-chi/chi/v5"

	appmiddleware "github.com/mdimitrov/photoblog/internal/middleware"
	"github.com/mdimitrov/photoblog/internal/session"
)

// Routes wires the full HTTP surface. main adds the outer middleware stack
// (request id, logging, recoverer, CORS) around this.
func Routes(auth *AuthHandler, posts *PostsHandler, sessions *session.Manager) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", Health)
	r.Get("/uploads/{name}", posts.ServeUpload)

	// Public pages. LoadUser lets view models branch on logged-in state;
	// RememberDestination lets a later login return the visitor here.
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.LoadUser(sessions))
		r.Use(appmiddleware.RememberDestination)
		r.Get("/", posts.Feed)
		r.Get("/posts/{id}", posts.Detail)
		r.Get("/posts/user/{id}", posts.ByAuthor)
	})

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireGuest(sessions))
		r.Get("/signup", auth.SignupForm)
		r.Post("/signup", auth.Signup)
		r.Get("/login", auth.LoginForm)
		r.Post("/login", auth.Login)
	})

	r.Get("/logout", auth.Logout)

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireAuth(sessions))
		r.Get("/dashboard", auth.Dashboard)
		r.Post("/post", posts.Create)
		r.Get("/myposts", posts.Mine)
		r.Get("/delete/{id}", posts.Delete)
		r.Get("/post/edit/{postId}", posts.EditForm)
		r.Post("/post/edit/{postId}", posts.Edit)
	})

	return r
}
