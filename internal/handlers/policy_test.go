package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdimitrov/photoblog/internal/models"
)

func TestCanModify(t *testing.T) {
	author := &models.User{ID: "a"}
	stranger := &models.User{ID: "b"}
	admin := &models.User{ID: "c", Admin: true}
	post := &models.Post{ID: "p", AuthorID: "a"}

	tests := []struct {
		name string
		user *models.User
		op   operation
		want bool
	}{
		{"author can delete", author, opDeletePost, true},
		{"author can edit", author, opEditPost, true},
		{"stranger cannot delete", stranger, opDeletePost, false},
		{"stranger cannot edit", stranger, opEditPost, false},
		{"admin can delete", admin, opDeletePost, true},
		{"admin cannot edit", admin, opEditPost, false},
		{"nil user cannot do anything", nil, opDeletePost, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canModify(tt.user, post, tt.op))
		})
	}
}
