package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/userprofile/backend/config"
	"github.com/pageza/userprofile/backend/internal/database"
	"github.com/pageza/userprofile/backend/internal/models"
	"github.com/pageza/userprofile/backend/internal/service"
)

type testUser struct {
	email  string
	group  string
	active bool
}

var testUsers = []testUser{
	{email: "john.doe@example.com", group: "user", active: true},
	{email: "jane.smith@example.com", group: "user", active: true},
	{email: "bob.wilson@example.com", group: "user", active: false},
	{email: "moderator@example.com", group: "moderator", active: true},
	{email: "admin@example.com", group: "admin", active: true},
}

func main() {
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed access tokens")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Hash password for test users
	password := "testpassword123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	jwtManager := service.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer)

	log.Println("Creating test users...")
	for _, u := range testUsers {
		user, err := ensureUser(db, u, string(hashedPassword))
		if err != nil {
			log.Printf("Failed to create user %s: %v", u.email, err)
			continue
		}

		token, err := jwtManager.SignAccessToken(user.ID, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}

		status := "active"
		if !user.IsActive {
			status = "inactive"
		}
		fmt.Printf("id=%d email=%s group=%s %s\n  token: %s\n", user.ID, u.email, u.group, status, token)
	}

	log.Println("Test users created successfully!")
	log.Printf("Password for every user: %s", password)
}

// ensureUser returns the user with u's email, creating it and its group if
// needed.
func ensureUser(db *gorm.DB, u testUser, hashedPassword string) (*models.User, error) {
	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		group := models.UserGroup{Name: u.group}
		if err := tx.Where(models.UserGroup{Name: u.group}).FirstOrCreate(&group).Error; err != nil {
			return err
		}

		err := tx.Where(models.User{Email: u.email}).
			Attrs(models.User{HashedPassword: hashedPassword, GroupID: group.ID}).
			FirstOrCreate(&user).Error
		if err != nil {
			return err
		}

		// is_active defaults to false, so it is set explicitly.
		return tx.Model(&user).Update("is_active", u.active).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
