package testhelpers

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/pageza/userprofile/backend/internal/models"
)

var userSeq atomic.Int64

// Group returns the group called name, creating it if needed.
func Group(t *testing.T, db *gorm.DB, name string) *models.UserGroup {
	t.Helper()
	group := models.UserGroup{Name: name}
	if err := db.Where(models.UserGroup{Name: name}).FirstOrCreate(&group).Error; err != nil {
		t.Fatalf("failed to create group %s: %v", name, err)
	}
	return &group
}

// CreateUser inserts a user in groupName. ID 0 lets the database choose.
func CreateUser(t *testing.T, db *gorm.DB, id uint, groupName string, active bool) *models.User {
	t.Helper()
	group := Group(t, db, groupName)
	user := models.User{
		ID:             id,
		Email:          fmt.Sprintf("user%d@example.com", userSeq.Add(1)),
		HashedPassword: "not-a-real-hash",
		IsActive:       active,
		GroupID:        group.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

// CountProfiles returns the number of profile rows owned by userID.
func CountProfiles(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count profiles: %v", err)
	}
	return n
}
