package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/userprofile/backend/internal/logger"
	"github.com/pageza/userprofile/backend/internal/models"
	"github.com/pageza/userprofile/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	repo    ProfileRepository
	storage AvatarStorage
	policy  *AccessPolicy
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(repo ProfileRepository, storage AvatarStorage, policy *AccessPolicy) *ProfileService {
	return &ProfileService{
		repo:    repo,
		storage: storage,
		policy:  policy,
	}
}

// CreateProfile creates the profile of targetID on behalf of actorID.
//
// The user lookup and the insert share one transaction, and the lookup locks
// the user row so duplicate requests for one user queue behind each other.
// The avatar upload is not transactional; if persisting fails after an
// upload, the object is deleted again on a best-effort basis. A duplicate
// insert keeps the object, since the key belongs to the committed profile.
func (s *ProfileService) CreateProfile(ctx context.Context, actorID, targetID uint, in *types.CreateProfileInput) (*types.ProfileResponse, error) {
	log := logger.FromContext(ctx).With("actor_id", actorID, "target_id", targetID)

	var (
		profile     *models.UserProfile
		avatarURL   *string
		uploadedKey string
	)

	err := s.repo.Transaction(ctx, func(repo ProfileRepository) error {
		user, err := repo.FindUserWithProfile(ctx, targetID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		// Unauthorized callers get ErrForbidden whether or not the target exists.
		if !s.policy.CanModifyProfile(ctx, repo, actorID, targetID) {
			return ErrForbidden
		}

		if user == nil || !user.IsActive {
			return ErrUserNotFound
		}
		if user.Profile != nil {
			return ErrProfileExists
		}

		profile = &models.UserProfile{
			UserID:      targetID,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Gender:      in.Gender,
			DateOfBirth: in.DateOfBirth,
			Info:        in.Info,
		}

		if in.Avatar != nil {
			key := AvatarKey(targetID)
			if err := s.storage.Upload(ctx, key, in.Avatar.Data, in.Avatar.ContentType); err != nil {
				return fmt.Errorf("failed to upload avatar: %w", err)
			}
			uploadedKey = key

			u, err := s.storage.URL(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to resolve avatar url: %w", err)
			}
			avatarURL = &u
			profile.Avatar = &key
		}

		if err := repo.InsertProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to insert profile: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case uploadedKey == "":
		case errors.Is(err, ErrProfileExists):
			log.Warn("avatar key belongs to an existing profile, not deleting", "key", uploadedKey)
		default:
			s.discardAvatar(ctx, uploadedKey)
		}
		if errors.Is(err, ErrStorageUnavailable) {
			log.Error("avatar storage failed",
				"connection", errors.Is(err, ErrStorageConnection),
				"error", err)
		}
		return nil, err
	}

	log.Info("profile created", "profile_id", profile.ID, "has_avatar", avatarURL != nil)
	return types.NewProfileResponse(profile, avatarURL), nil
}

// discardAvatar removes an avatar whose profile was never committed.
func (s *ProfileService) discardAvatar(ctx context.Context, key string) {
	log := logger.FromContext(ctx).With("key", key)
	// The request context may already be cancelled; the cleanup still runs.
	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.Warn("failed to delete orphaned avatar", "error", err)
		return
	}
	log.Info("deleted orphaned avatar")
}
