package access

import (
	"testing"

	"cityguide/internal/domain/places"
	"cityguide/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGate(t *testing.T) {
	owner := &users.User{ID: uuid.New(), Role: users.RoleUser, IsActive: true}
	stranger := &users.User{ID: uuid.New(), Role: users.RoleUser, IsActive: true}
	admin := &users.User{ID: uuid.New(), Role: users.RoleAdmin, IsActive: true}
	bannedAdmin := &users.User{ID: uuid.New(), Role: users.RoleAdmin, IsActive: false}

	owned := &places.Place{ID: uuid.New(), OwnerID: &owner.ID}
	unowned := &places.Place{ID: uuid.New()}

	t.Run("modify place", func(t *testing.T) {
		assert.True(t, CanModifyPlace(owner, owned))
		assert.True(t, CanModifyPlace(admin, owned))
		assert.True(t, CanModifyPlace(admin, unowned))
		assert.False(t, CanModifyPlace(stranger, owned))
		assert.False(t, CanModifyPlace(owner, unowned))
	})

	t.Run("reply to review", func(t *testing.T) {
		assert.True(t, CanReplyToReview(owner, owned))
		assert.False(t, CanReplyToReview(admin, owned))
		assert.False(t, CanReplyToReview(owner, unowned))
	})

	t.Run("admin routes", func(t *testing.T) {
		assert.NoError(t, CanAccessAdminRoutes(admin))
		assert.ErrorIs(t, CanAccessAdminRoutes(owner), ErrAdminOnly)
		assert.ErrorIs(t, CanAccessAdminRoutes(bannedAdmin), ErrAccountBanned)
	})

	t.Run("active", func(t *testing.T) {
		assert.NoError(t, CheckActive(owner))
		assert.ErrorIs(t, CheckActive(bannedAdmin), ErrAccountBanned)
	})

	t.Run("self deletion", func(t *testing.T) {
		assert.ErrorIs(t, CheckSelfDeletion(admin, admin.ID), ErrSelfDeletion)
		assert.NoError(t, CheckSelfDeletion(admin, owner.ID))
	})
}
