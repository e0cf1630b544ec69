package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/adapters/persistence"
	"github.com/khoahotran/resume-builder/internal/config"
	"github.com/khoahotran/resume-builder/internal/domain/user"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/auth"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

// Creates a demo account: SEED_EMAIL, SEED_PASSWORD and optional SEED_NAME.
func main() {
	fmt.Println("adding user into database...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_EMAIL")))
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SEED_EMAIL and SEED_PASSWORD are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := persistence.RunMigrations(cfg.DB.DSN); err != nil {
			log.Fatalf("cannot migrate: %v", err)
		}
	}
	pool, err := persistence.NewPostgresPool(ctx, cfg, logger.NewNopLogger())
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	repo := persistence.NewPostgresUserRepo(pool)
	err = repo.Create(ctx, &user.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         os.Getenv("SEED_NAME"),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, apperror.ErrConflict) {
		fmt.Printf("user '%s' already exists, nothing to do\n", email)
		return
	}
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added user '%s' successfully!\n", email)
}
