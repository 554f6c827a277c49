package permission

import (
	"github.com/google/uuid"

	"github.com/critiquehub/critique/internal/models"
)

// Actor is the identity a request acts under. The zero value is anonymous.
type Actor struct {
	Authenticated bool
	ID            uuid.UUID
	Role          models.Role
}

// Anonymous is the actor of an unauthenticated request.
var Anonymous = Actor{}

// IsAdmin reports whether the actor may curate reference data (categories,
// genres, titles) and manage users.
func IsAdmin(a Actor) bool {
	return a.Authenticated && a.Role == models.RoleAdmin
}

// IsModerator reports whether the actor holds moderator powers. Admins are
// moderator-equivalent everywhere moderation applies.
func IsModerator(a Actor) bool {
	return a.Authenticated && (a.Role == models.RoleModerator || a.Role == models.RoleAdmin)
}

// CanCreatePost reports whether the actor may create a review or comment.
// Any authenticated user qualifies; reads need no permission at all.
func CanCreatePost(a Actor) bool {
	return a.Authenticated
}

// CanModifyPost reports whether the actor may update or delete a review or
// comment authored by authorID.
func CanModifyPost(a Actor, authorID uuid.UUID) bool {
	if !a.Authenticated {
		return false
	}
	return a.ID == authorID || IsModerator(a)
}
