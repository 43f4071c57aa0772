// Package access holds the authorization rules shared by the HTTP layer and
// the domain services.
package access

import (
	"errors"

	"cityguide/internal/domain/places"
	"cityguide/internal/domain/users"

	"github.com/google/uuid"
)

var (
	ErrAccountBanned = errors.New("your account has been banned")
	ErrAdminOnly     = errors.New("access denied, admin only")
	ErrSelfDeletion  = errors.New("you cannot delete your own account")
)

// CheckActive fails for banned accounts, whatever their role.
func CheckActive(u *users.User) error {
	if !u.IsActive {
		return ErrAccountBanned
	}
	return nil
}

// CanAccessAdminRoutes is evaluated after token validation; a banned admin is
// still refused.
func CanAccessAdminRoutes(u *users.User) error {
	if err := CheckActive(u); err != nil {
		return err
	}
	if !u.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

func CanModifyPlace(u *users.User, p *places.Place) bool {
	return u.IsAdmin() || p.OwnedBy(u.ID)
}

// CanReplyToReview is owner-only. Admins are not owners.
func CanReplyToReview(u *users.User, p *places.Place) bool {
	return p.OwnedBy(u.ID)
}

func CheckSelfDeletion(actor *users.User, targetID uuid.UUID) error {
	if actor.ID == targetID {
		return ErrSelfDeletion
	}
	return nil
}
