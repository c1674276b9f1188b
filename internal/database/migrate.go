package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/userprofile/backend/internal/models"
)

// ErrNoMigrations is returned by RollbackLast when nothing has been applied.
var ErrNoMigrations = errors.New("no migrations to roll back")

// SchemaMigration records one applied migration file.
type SchemaMigration struct {
	Version   string    `gorm:"primaryKey;size:32"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// RunMigrations brings the schema up to date. SQLite databases are migrated
// from the models; PostgreSQL runs every pending NNN_name.up.sql file in
// migrationsDir in order, each in its own transaction.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		slog.Info("using GORM auto-migration for SQLite")
		return db.AutoMigrate(&models.UserGroup{}, &models.User{}, &models.UserProfile{})
	}

	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	files, err := upFiles(migrationsDir)
	if err != nil {
		return err
	}

	for _, file := range files {
		version := migrationVersion(file)

		var count int64
		if err := db.Model(&SchemaMigration{}).Where("version = ?", version).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			slog.Debug("skipping applied migration", "file", file)
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, file))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: version, Name: file, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}

		slog.Info("applied migration", "file", file)
	}

	return nil
}

// RollbackLast reverts the most recently applied migration using its
// NNN_name.down.sql counterpart and returns the reverted file name.
func RollbackLast(db *gorm.DB, migrationsDir string) (string, error) {
	var last SchemaMigration
	err := db.Order("version DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoMigrations
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	downFile := strings.TrimSuffix(last.Name, ".up.sql") + ".down.sql"
	content, err := os.ReadFile(filepath.Join(migrationsDir, downFile))
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file %s: %w", downFile, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return err
		}
		return tx.Delete(&SchemaMigration{}, "version = ?", last.Version).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to roll back %s: %w", last.Name, err)
	}

	return last.Name, nil
}

func upFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func migrationVersion(file string) string {
	version, _, _ := strings.Cut(file, "_")
	return version
}
