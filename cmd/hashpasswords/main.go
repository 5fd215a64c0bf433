// Command hashpasswords replaces plain-text passwords left by older imports
// with bcrypt hashes. Rows that already hold a bcrypt hash are skipped, so
// the tool can be run repeatedly.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"horizon/coach-api/internal/config"
	"horizon/coach-api/internal/logging"
	"horizon/coach-api/internal/repository"
	"horizon/coach-api/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := postgres.ConnectDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	updated, err := hashPlainPasswords(ctx, postgres.NewUserRepository(db), logger)
	if err != nil {
		logger.Error("hashing stopped", zap.Int("updated", updated), zap.Error(err))
		return err
	}
	logger.Info("passwords hashed", zap.Int("updated", updated))
	return nil
}

// isBcryptHash reports whether s looks like a bcrypt digest ($2a$, $2b$, $2y$).
func isBcryptHash(s string) bool {
	if len(s) != 60 || !strings.HasPrefix(s, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

func hashPlainPasswords(ctx context.Context, users repository.UserRepository, logger *zap.Logger) (int, error) {
	all, err := users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	updated := 0
	for _, u := range all {
		if u.PasswordHash == "" || isBcryptHash(u.PasswordHash) {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			return updated, fmt.Errorf("hash password of user %d: %w", u.ID, err)
		}
		if err := users.UpdatePassword(ctx, u.ID, string(hashed)); err != nil {
			return updated, fmt.Errorf("update user %d: %w", u.ID, err)
		}
		logger.Info("hashed password", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
		updated++
	}
	return updated, nil
}
