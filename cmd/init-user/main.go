// Command init-user bootstraps the first account so the dashboard can be
// logged into on a fresh install. Idempotent: an already-registered email
// exits successfully without changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/modeldeck/modeldeck/internal/auth"
	"github.com/modeldeck/modeldeck/internal/config"
	"github.com/modeldeck/modeldeck/internal/errs"
	"github.com/modeldeck/modeldeck/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	email := os.Getenv("BOOTSTRAP_EMAIL")
	password := os.Getenv("BOOTSTRAP_PASSWORD")
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ERROR: BOOTSTRAP_EMAIL and BOOTSTRAP_PASSWORD must be set")
		os.Exit(1)
	}
	if !strings.Contains(email[1:], "@") {
		fmt.Fprintf(os.Stderr, "ERROR: Invalid email format: %s\n", email)
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "ERROR: Password must be at least 8 characters long")
		os.Exit(1)
	}

	dbCfg := storage.DefaultDBConfig()
	dbCfg.URL = cfg.Database.URL
	db, err := storage.NewDB(dbCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := storage.Migrate(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to apply migrations: %v\n", err)
		os.Exit(1)
	}

	svc := auth.NewService(db.NewUserRepository(), []byte(cfg.JWTSecret))
	user, err := svc.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, errs.ErrDuplicate) {
			fmt.Printf("User %s already exists, nothing to do\n", email)
			return
		}
		fmt.Fprintf(os.Stderr, "ERROR: Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created user %s (%s)\n", user.Email, user.ID)
	fmt.Println("Unset BOOTSTRAP_EMAIL and BOOTSTRAP_PASSWORD now that setup is done.")
}
