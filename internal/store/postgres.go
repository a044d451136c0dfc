package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mdimitrov/photoblog/internal/models"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Postgres) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const query = `
		INSERT INTO users (email, password_hash, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id::text, email, password_hash, is_admin, created_at
	`
	var created models.User
	err := s.pool.QueryRow(ctx, query, user.Email, user.PasswordHash, user.Admin).Scan(
		&created.ID,
		&created.Email,
		&created.PasswordHash,
		&created.Admin,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id::text, email, password_hash, is_admin, created_at
		FROM users
		WHERE email = $1
	`
	return s.scanUser(s.pool.QueryRow(ctx, query, email), "get user by email")
}

func (s *Postgres) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const query = `
		SELECT id::text, email, password_hash, is_admin, created_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.pool.QueryRow(ctx, query, id), "get user by id")
}

func (s *Postgres) scanUser(row pgx.Row, op string) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Admin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (s *Postgres) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	const query = `
		INSERT INTO posts (title, body, filename, author_id, username)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, title, body, filename, author_id::text, username, created_at
	`
	var created models.Post
	err := s.pool.QueryRow(ctx, query,
		post.Title,
		post.Body,
		post.Filename,
		post.AuthorID,
		post.Username,
	).Scan(
		&created.ID,
		&created.Title,
		&created.Body,
		&created.Filename,
		&created.AuthorID,
		&created.Username,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &created, nil
}

func (s *Postgres) ListPosts(ctx context.Context, oldestFirst bool) ([]models.Post, error) {
	query := `
		SELECT id::text, title, body, filename, author_id::text, username, created_at
		FROM posts
		ORDER BY created_at DESC
	`
	if oldestFirst {
		query = `
			SELECT id::text, title, body, filename, author_id::text, username, created_at
			FROM posts
			ORDER BY created_at ASC
		`
	}
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (s *Postgres) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	const query = `
		SELECT id::text, title, body, filename, author_id::text, username, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows pgx.Rows) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Body,
			&post.Filename,
			&post.AuthorID,
			&post.Username,
			&post.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

func (s *Postgres) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	const query = `
		SELECT id::text, title, body, filename, author_id::text, username, created_at
		FROM posts
		WHERE id = $1
	`
	var post models.Post
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.Filename,
		&post.AuthorID,
		&post.Username,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// UpdatePost overwrites title, body and filename. created_at is never touched.
func (s *Postgres) UpdatePost(ctx context.Context, id, title, body, filename string) error {
	const query = `
		UPDATE posts
		SET title = $2, body = $3, filename = $4
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, id, title, body, filename)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) DeletePost(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
