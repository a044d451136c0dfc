// Package store persists users and posts in PostgreSQL.
package store

import (
	"context"
	"errors"

	"github.com/mdimitrov/photoblog/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("not found")

type Users interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Posts interface {
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	ListPosts(ctx context.Context, oldestFirst bool) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, id, title, body, filename string) error
	DeletePost(ctx context.Context, id string) error
}
