package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

// seedPasswordBytes is the number of random bytes for the seed admin password.
const seedPasswordBytes = 16

// SeedAdminName is the display name of the seeded administrator.
const SeedAdminName = "Administrator"

// SeedAdmin creates a verified administrator on first boot if no accounts
// exist. The generated password is logged once at WARN and must be changed.
// Returns the generated password, or "" when seeding was skipped.
func SeedAdmin(ctx context.Context, repo AccountRepository, hasher *PasswordHasher, email string, logger *slog.Logger) (string, error) {
	if email == "" {
		logger.Debug("no seed admin email configured, skipping admin seed")
		return "", nil
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("checking account count: %w", err)
	}
	if count > 0 {
		logger.Info("accounts exist, skipping admin seed")
		return "", nil
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	hash, err := hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &Account{
		Name:         SeedAdminName,
		Email:        email,
		PasswordHash: hash,
		Verified:     true,
		IsAdmin:      true,
		RegisteredAt: time.Now(),
	}
	if err := repo.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Warn("seed admin account created",
		"email", email,
		"password", password,
		"action_required", "change this password immediately",
	)

	return password, nil
}
