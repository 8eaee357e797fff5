// Command seedadmin creates a back-office account.
// Usage: go run ./cmd/seedadmin -email ops@nr6.ca -name "Ops Team"
// The password is read from NR6_SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"nr6/internal/config"
	"nr6/internal/domain"
	"nr6/internal/repository/postgres"
)

const minPasswordLen = 12

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	email := flag.String("email", "", "admin email address")
	name := flag.String("name", "", "admin display name")
	flag.Parse()

	password := os.Getenv("NR6_SEED_ADMIN_PASSWORD")
	if *email == "" {
		return errors.New("-email is required")
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("NR6_SEED_ADMIN_PASSWORD must be at least %d characters", minPasswordLen)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := postgres.NewAdminUserRepo(db)
	user := &domain.AdminUser{
		Email:        *email,
		PasswordHash: string(hash),
		FullName:     *name,
		IsActive:     true,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return fmt.Errorf("an admin with email %s already exists", *email)
		}
		return fmt.Errorf("creating admin: %w", err)
	}

	log.Printf("created admin %s (%s)", user.Email, user.ID)
	return nil
}
