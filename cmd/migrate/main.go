package main

import (
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"

	"github.com/pageza/userprofile/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the NNN_name.up.sql/.down.sql files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer sqlDB.Close()

	db, err := database.OpenDialector(postgres.New(postgres.Config{Conn: sqlDB}))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	if *rollback {
		name, err := database.RollbackLast(db, *migrationsDir)
		if errors.Is(err, database.ErrNoMigrations) {
			log.Println("No migrations to rollback")
			return
		}
		if err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		log.Printf("Rolled back %s", name)
		return
	}

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("Migrations completed successfully")
}
