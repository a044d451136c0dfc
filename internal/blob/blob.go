// Package blob stores uploaded file bytes under generated unique names.
package blob

import (
	"context"
	"errors"
	"io"
	"regexp"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a blob name matches nothing.
var ErrNotFound = errors.New("blob not found")

type Store interface {
	// Save writes the blob and returns its generated name. The original
	// file extension is preserved when it looks safe.
	Save(ctx context.Context, ext string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

var extPattern = regexp.MustCompile(`^\.[a-zA-Z0-9]{1,10}$`)

func newName(ext string) string {
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}
