package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/userprofile/backend/internal/database"
	"github.com/pageza/userprofile/backend/internal/service"
	"github.com/pageza/userprofile/backend/internal/testhelpers"
)

func TestCanModifyProfile(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	repo := database.NewProfileRepository(db)
	policy := service.NewAccessPolicy("admin")

	admin := testhelpers.CreateUser(t, db, 1, "admin", true)
	moderator := testhelpers.CreateUser(t, db, 2, "moderator", true)
	member := testhelpers.CreateUser(t, db, 3, "user", true)
	other := testhelpers.CreateUser(t, db, 4, "user", true)

	tests := []struct {
		name    string
		actor   uint
		target  uint
		allowed bool
	}{
		{"self", member.ID, member.ID, true},
		{"self without account", 99, 99, true},
		{"admin on another user", admin.ID, other.ID, true},
		{"admin on missing user", admin.ID, 99, true},
		{"moderator on another user", moderator.ID, other.ID, false},
		{"user on another user", member.ID, other.ID, false},
		{"unknown actor", 99, other.ID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.CanModifyProfile(context.Background(), repo, tt.actor, tt.target)
			assert.Equal(t, tt.allowed, got)
		})
	}
}

func TestCanModifyProfileCustomAdminGroup(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	repo := database.NewProfileRepository(db)
	policy := service.NewAccessPolicy("moderator")

	moderator := testhelpers.CreateUser(t, db, 1, "moderator", true)
	admin := testhelpers.CreateUser(t, db, 2, "admin", true)
	target := testhelpers.CreateUser(t, db, 3, "user", true)

	assert.True(t, policy.CanModifyProfile(context.Background(), repo, moderator.ID, target.ID))
	assert.False(t, policy.CanModifyProfile(context.Background(), repo, admin.ID, target.ID))
}
