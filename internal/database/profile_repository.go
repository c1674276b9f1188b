package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/userprofile/backend/internal/models"
	"github.com/pageza/userprofile/backend/internal/service"
)

// ProfileRepository is the GORM implementation of service.ProfileRepository.
type ProfileRepository struct {
	db *gorm.DB
}

// Ensure ProfileRepository implements service.ProfileRepository
var _ service.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository instance
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindUserWithProfile loads the user and its profile with a single LEFT JOIN.
// On Postgres the user row is locked until the surrounding transaction ends;
// SQLite transactions already hold the database write lock.
func (r *ProfileRepository) FindUserWithProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	query := r.db.WithContext(ctx).Joins("Profile").Where("users.id = ?", userID)
	if r.db.Dialector.Name() == "postgres" {
		// FOR UPDATE cannot reach the nullable side of the join.
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}})
	}
	err := query.Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if user.Profile != nil && user.Profile.ID == 0 {
		user.Profile = nil
	}
	return &user, nil
}

// FindGroupNameForUser joins the user's group and returns its name.
func (r *ProfileRepository) FindGroupNameForUser(ctx context.Context, userID uint) (string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.UserGroup{}).
		Joins("JOIN users ON users.group_id = user_groups.id").
		Where("users.id = ?", userID).
		Limit(1).
		Pluck("user_groups.name", &names).Error
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", service.ErrGroupNotFound
	}
	return names[0], nil
}

// InsertProfile creates p. The unique index on user_id turns a concurrent
// duplicate into service.ErrProfileExists.
func (r *ProfileRepository) InsertProfile(ctx context.Context, p *models.UserProfile) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if isUniqueViolation(err) {
		return service.ErrProfileExists
	}
	return err
}

// Transaction runs fn inside a database transaction.
func (r *ProfileRepository) Transaction(ctx context.Context, fn func(repo service.ProfileRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProfileRepository{db: tx})
	})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
