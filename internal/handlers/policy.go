package handlers

import "github.com/mdimitrov/photoblog/internal/models"

type operation int

const (
	opDeletePost operation = iota
	opEditPost
)

// adminBypass makes the authorization asymmetry explicit: an admin may
// delete anyone's post but may only edit their own.
var adminBypass = map[operation]bool{
	opDeletePost: true,
	opEditPost:   false,
}

func canModify(user *models.User, post *models.Post, op operation) bool {
	if user == nil {
		return false
	}
	if user.ID == post.AuthorID {
		return true
	}
	return user.Admin && adminBypass[op]
}
