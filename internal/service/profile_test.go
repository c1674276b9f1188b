package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/userprofile/backend/internal/database"
	"github.com/pageza/userprofile/backend/internal/models"
	"github.com/pageza/userprofile/backend/internal/service"
	"github.com/pageza/userprofile/backend/internal/testhelpers"
	"github.com/pageza/userprofile/backend/internal/testhelpers/mocks"
	"github.com/pageza/userprofile/backend/internal/types"
)

var avatarJPEG = []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

type profileFixture struct {
	db      *gorm.DB
	repo    service.ProfileRepository
	storage *mocks.MockAvatarStorage
	svc     *service.ProfileService
}

func setupProfileTest(t *testing.T) *profileFixture {
	t.Helper()
	db := testhelpers.SetupSQLiteDatabase(t)
	f := &profileFixture{
		db:      db,
		repo:    database.NewProfileRepository(db),
		storage: new(mocks.MockAvatarStorage),
	}
	f.svc = service.NewProfileService(f.repo, f.storage, service.NewAccessPolicy("admin"))
	t.Cleanup(func() { f.storage.AssertExpectations(t) })
	return f
}

func strPtr(s string) *string { return &s }

func fullInput(t *testing.T, avatar []byte) *types.CreateProfileInput {
	t.Helper()
	form := types.CreateProfileForm{
		FirstName:   strPtr("Ada"),
		LastName:    strPtr("Lovelace"),
		Gender:      strPtr("woman"),
		DateOfBirth: strPtr("1990-12-10"),
		Info:        strPtr("Writes programs for engines."),
	}
	in, verr := types.NewCreateProfileInput(form, avatar, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Nil(t, verr)
	return in
}

func TestCreateProfileSelf(t *testing.T) {
	f := setupProfileTest(t)
	user := testhelpers.CreateUser(t, f.db, 5, "user", true)

	f.storage.On("Upload", mock.Anything, "avatars/5_avatar.jpg", avatarJPEG, "image/jpeg").Return(nil).Once()
	f.storage.On("URL", mock.Anything, "avatars/5_avatar.jpg").
		Return("https://cdn.example.com/avatars/5_avatar.jpg", nil).Once()

	resp, err := f.svc.CreateProfile(context.Background(), user.ID, user.ID, fullInput(t, avatarJPEG))
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "ada", *resp.FirstName)
	assert.Equal(t, "lovelace", *resp.LastName)
	assert.Equal(t, models.GenderWoman, *resp.Gender)
	assert.Equal(t, "1990-12-10", *resp.DateOfBirth)
	assert.Equal(t, "Writes programs for engines.", *resp.Info)
	require.NotNil(t, resp.Avatar)
	assert.Equal(t, "https://cdn.example.com/avatars/5_avatar.jpg", *resp.Avatar)

	var stored models.UserProfile
	require.NoError(t, f.db.Where("user_id = ?", user.ID).First(&stored).Error)
	require.NotNil(t, stored.Avatar)
	assert.Equal(t, "avatars/5_avatar.jpg", *stored.Avatar, "the key is stored, not the URL")
}

func TestCreateProfileWithoutAvatar(t *testing.T) {
	f := setupProfileTest(t)
	user := testhelpers.CreateUser(t, f.db, 0, "user", true)

	resp, err := f.svc.CreateProfile(context.Background(), user.ID, user.ID, &types.CreateProfileInput{})
	require.NoError(t, err)

	assert.Nil(t, resp.Avatar)
	assert.Nil(t, resp.FirstName)
	assert.Nil(t, resp.DateOfBirth)
	assert.Equal(t, int64(1), testhelpers.CountProfiles(t, f.db, user.ID))
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProfileAdminForOtherUser(t *testing.T) {
	f := setupProfileTest(t)
	admin := testhelpers.CreateUser(t, f.db, 1, "admin", true)
	target := testhelpers.CreateUser(t, f.db, 2, "user", true)

	resp, err := f.svc.CreateProfile(context.Background(), admin.ID, target.ID, fullInput(t, nil))
	require.NoError(t, err)
	assert.Equal(t, target.ID, resp.UserID)
	assert.Equal(t, int64(1), testhelpers.CountProfiles(t, f.db, target.ID))
	assert.Zero(t, testhelpers.CountProfiles(t, f.db, admin.ID))
}

func TestCreateProfileForbidden(t *testing.T) {
	f := setupProfileTest(t)
	actor := testhelpers.CreateUser(t, f.db, 1, "moderator", true)
	target := testhelpers.CreateUser(t, f.db, 2, "user", true)

	_, err := f.svc.CreateProfile(context.Background(), actor.ID, target.ID, fullInput(t, avatarJPEG))
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Zero(t, testhelpers.CountProfiles(t, f.db, target.ID))

	// A missing target is indistinguishable from an existing one.
	_, err = f.svc.CreateProfile(context.Background(), actor.ID, 404, fullInput(t, nil))
	assert.ErrorIs(t, err, service.ErrForbidden)

	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProfileUserNotFound(t *testing.T) {
	f := setupProfileTest(t)
	admin := testhelpers.CreateUser(t, f.db, 1, "admin", true)
	inactive := testhelpers.CreateUser(t, f.db, 2, "user", false)

	tests := []struct {
		name   string
		actor  uint
		target uint
	}{
		{"self without account", 77, 77},
		{"admin on missing user", admin.ID, 77},
		{"inactive self", inactive.ID, inactive.ID},
		{"admin on inactive user", admin.ID, inactive.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateProfile(context.Background(), tt.actor, tt.target, fullInput(t, avatarJPEG))
			assert.ErrorIs(t, err, service.ErrUserNotFound)
			assert.Zero(t, testhelpers.CountProfiles(t, f.db, tt.target))
		})
	}
}

func TestCreateProfileAlreadyExists(t *testing.T) {
	f := setupProfileTest(t)
	user := testhelpers.CreateUser(t, f.db, 0, "user", true)

	_, err := f.svc.CreateProfile(context.Background(), user.ID, user.ID, fullInput(t, nil))
	require.NoError(t, err)

	_, err = f.svc.CreateProfile(context.Background(), user.ID, user.ID, fullInput(t, avatarJPEG))
	assert.ErrorIs(t, err, service.ErrProfileExists)
	assert.Equal(t, int64(1), testhelpers.CountProfiles(t, f.db, user.ID))
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProfileUploadFailure(t *testing.T) {
	f := setupProfileTest(t)
	user := testhelpers.CreateUser(t, f.db, 0, "user", true)

	uploadErr := errors.Join(service.ErrStorageUnavailable, service.ErrStorageConnection)
	f.storage.On("Upload", mock.Anything, service.AvatarKey(user.ID), avatarJPEG, "image/jpeg").Return(uploadErr).Once()

	_, err := f.svc.CreateProfile(context.Background(), user.ID, user.ID, fullInput(t, avatarJPEG))
	assert.ErrorIs(t, err, service.ErrStorageUnavailable)
	assert.ErrorIs(t, err, service.ErrStorageConnection)
	assert.Zero(t, testhelpers.CountProfiles(t, f.db, user.ID))
	f.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateProfileURLFailureDeletesAvatar(t *testing.T) {
	f := setupProfileTest(t)
	user := testhelpers.CreateUser(t, f.db, 0, "user", true)
	key := service.AvatarKey(user.ID)

	f.storage.On("Upload", mock.Anything, key, avatarJPEG, "image/jpeg").Return(nil).Once()
	f.storage.On("URL", mock.Anything, key).Return("", errors.Join(service.ErrStorageUnavailable, service.ErrStorageUpload)).Once()
	f.storage.On("Delete", mock.Anything, key).Return(nil).Once()

	_, err := f.svc.CreateProfile(context.Background(), user.ID, user.ID, fullInput(t, avatarJPEG))
	assert.ErrorIs(t, err, service.ErrStorageUpload)
	assert.Zero(t, testhelpers.CountProfiles(t, f.db, user.ID))
}

// insertFailingRepo wraps a repository whose inserts always fail.
type insertFailingRepo struct {
	service.ProfileRepository
	err error
}

func (r *insertFailingRepo) InsertProfile(context.Context, *models.UserProfile) error {
	return r.err
}

func (r *insertFailingRepo) Transaction(ctx context.Context, fn func(repo service.ProfileRepository) error) error {
	return r.ProfileRepository.Transaction(ctx, func(tx service.ProfileRepository) error {
		return fn(&insertFailingRepo{ProfileRepository: tx, err: r.err})
	})
}

func TestCreateProfileInsertFailureDeletesAvatar(t *testing.T) {
	f := setupProfileTest(t)
	user := testhelpers.CreateUser(t, f.db, 0, "user", true)
	key := service.AvatarKey(user.ID)

	repo := &insertFailingRepo{ProfileRepository: f.repo, err: errors.New("connection reset")}
	svc := service.NewProfileService(repo, f.storage, service.NewAccessPolicy("admin"))

	ctx, cancel := context.WithCancel(context.Background())
	f.storage.On("Upload", mock.Anything, key, avatarJPEG, "image/jpeg").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil).Once()
	f.storage.On("URL", mock.Anything, key).Return("https://cdn.example.com/"+key, nil).Once()
	f.storage.On("Delete", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), key).
		Return(nil).Once()

	_, err := svc.CreateProfile(ctx, user.ID, user.ID, fullInput(t, avatarJPEG))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Zero(t, testhelpers.CountProfiles(t, f.db, user.ID))
}

// staleLookupRepo hides existing profiles from the lookup, as a read taken
// before a concurrent insert committed would.
type staleLookupRepo struct {
	service.ProfileRepository
}

func (r *staleLookupRepo) FindUserWithProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := r.ProfileRepository.FindUserWithProfile(ctx, userID)
	if user != nil {
		user.Profile = nil
	}
	return user, err
}

func (r *staleLookupRepo) Transaction(ctx context.Context, fn func(repo service.ProfileRepository) error) error {
	return r.ProfileRepository.Transaction(ctx, func(tx service.ProfileRepository) error {
		return fn(&staleLookupRepo{ProfileRepository: tx})
	})
}

func TestCreateProfileDuplicateInsertKeepsCommittedAvatar(t *testing.T) {
	f := setupProfileTest(t)
	user := testhelpers.CreateUser(t, f.db, 0, "user", true)
	key := service.AvatarKey(user.ID)
	require.NoError(t, f.db.Create(&models.UserProfile{UserID: user.ID, Avatar: &key}).Error)

	svc := service.NewProfileService(&staleLookupRepo{ProfileRepository: f.repo}, f.storage, service.NewAccessPolicy("admin"))
	f.storage.On("Upload", mock.Anything, key, avatarJPEG, "image/jpeg").Return(nil).Once()
	f.storage.On("URL", mock.Anything, key).Return("https://cdn.example.com/"+key, nil).Once()

	_, err := svc.CreateProfile(context.Background(), user.ID, user.ID, fullInput(t, avatarJPEG))
	assert.ErrorIs(t, err, service.ErrProfileExists)
	f.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	var profile models.UserProfile
	require.NoError(t, f.db.Where("user_id = ?", user.ID).Take(&profile).Error)
	require.NotNil(t, profile.Avatar)
	assert.Equal(t, key, *profile.Avatar)
}

func TestCreateProfileDeleteFailureReturnsInsertError(t *testing.T) {
	f := setupProfileTest(t)
	user := testhelpers.CreateUser(t, f.db, 0, "user", true)
	key := service.AvatarKey(user.ID)

	repo := &insertFailingRepo{ProfileRepository: f.repo, err: errors.New("disk full")}
	svc := service.NewProfileService(repo, f.storage, service.NewAccessPolicy("admin"))

	f.storage.On("Upload", mock.Anything, key, avatarJPEG, "image/jpeg").Return(nil).Once()
	f.storage.On("URL", mock.Anything, key).Return("https://cdn.example.com/"+key, nil).Once()
	f.storage.On("Delete", mock.Anything, key).Return(errors.Join(service.ErrStorageUnavailable, service.ErrStorageConnection)).Once()

	_, err := svc.CreateProfile(context.Background(), user.ID, user.ID, fullInput(t, avatarJPEG))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotErrorIs(t, err, service.ErrStorageUnavailable)
}
