package service

import (
	"context"

	"github.com/pageza/userprofile/backend/internal/models"
	"github.com/pageza/userprofile/backend/internal/types"
)

// TokenVerifier decodes a bearer token into its claims.
// Failures are ErrTokenExpired or ErrInvalidToken.
type TokenVerifier interface {
	Decode(token string) (*types.TokenClaims, error)
}

// AvatarStorage stores avatar images in an object store.
type AvatarStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ProfileRepository is the persistence boundary for profiles.
type ProfileRepository interface {
	// FindUserWithProfile loads a user together with its profile in one
	// round trip. A missing user yields (nil, nil).
	FindUserWithProfile(ctx context.Context, userID uint) (*models.User, error)
	// FindGroupNameForUser returns the name of the user's group, or
	// ErrGroupNotFound.
	FindGroupNameForUser(ctx context.Context, userID uint) (string, error)
	// InsertProfile stores p and fills its generated fields. A second
	// profile for the same user yields ErrProfileExists.
	InsertProfile(ctx context.Context, p *models.UserProfile) error
	// Transaction runs fn against a repository bound to one transaction,
	// committing when fn returns nil.
	Transaction(ctx context.Context, fn func(repo ProfileRepository) error) error
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	CreateProfile(ctx context.Context, actorID, targetID uint, in *types.CreateProfileInput) (*types.ProfileResponse, error)
}
