// Package bootstrap seeds the first superuser on startup so a fresh
// deployment can reach the admin API without the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/audiohub/internal/audit"
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
	"github.com/dropDatabas3/audiohub/internal/security/password"
)

const DefaultUsername = "admin"

var ErrIncompleteConfig = errors.New("bootstrap: superuser email and password must be set together")

// SuperuserConfig names the account to seed. An empty Email disables bootstrap.
type SuperuserConfig struct {
	Email    string
	Username string
	Password string
}

// EnsureSuperuser creates the configured superuser unless an account with that
// email already exists. An existing account is left untouched. It reports
// whether a new account was created.
func EnsureSuperuser(ctx context.Context, users repository.UserRepository, hasher *password.Hasher, cfg SuperuserConfig) (bool, error) {
	email := repository.NormalizeEmail(cfg.Email)
	if email == "" && cfg.Password == "" {
		return false, nil
	}
	if email == "" || cfg.Password == "" {
		return false, ErrIncompleteConfig
	}
	log := logger.From(ctx).With(logger.Component("bootstrap"), logger.Email(email))

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsSuperuser {
			log.Warn("bootstrap email belongs to a regular account, not promoting", logger.UserID(existing.ID))
		}
		return false, nil
	case !repository.IsNotFound(err):
		return false, fmt.Errorf("bootstrap: lookup: %w", err)
	}

	username := cfg.Username
	if username == "" {
		username = DefaultUsername
	}
	hashed, err := hasher.Hash(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("bootstrap: %w", err)
	}

	u, err := users.Create(ctx, repository.CreateUserInput{
		Email:          email,
		Username:       username,
		HashedPassword: &hashed,
		IsSuperuser:    true,
	})
	if err != nil {
		// Another replica won the race.
		if repository.IsConflict(err) {
			if _, lookupErr := users.GetByEmail(ctx, email); lookupErr == nil {
				return false, nil
			}
		}
		return false, fmt.Errorf("bootstrap: create: %w", err)
	}
	audit.Log(ctx, audit.SuperuserCreated, logger.UserID(u.ID), logger.Email(email))
	return true, nil
}
