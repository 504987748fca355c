package blog

import "github.com/yatube/yatube/internal/models"

// Identity is the caller of a domain operation. The zero value is anonymous.
type Identity struct {
	UserID   int64
	Username string
}

// Anonymous returns the identity of an unauthenticated caller
func Anonymous() Identity {
	return Identity{}
}

// Authenticated reports whether the caller is signed in
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// CanEdit reports whether the caller may change the post
func CanEdit(i Identity, post *models.Post) bool {
	return i.Authenticated() && post != nil && post.AuthorID == i.UserID
}

// CanFollow reports whether the caller may follow the target user.
// Self-follow is refused here so that no edge is ever attempted for it.
func CanFollow(i Identity, targetID int64) bool {
	return i.Authenticated() && targetID != 0 && targetID != i.UserID
}
