package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type Post struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Filename string `json:"filename"`
	AuthorID string `json:"author_id"`
	// Username is the author's display name, frozen at creation time.
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
