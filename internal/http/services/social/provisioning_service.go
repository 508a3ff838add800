// Package social turns a provider identity into a local account and a session.
package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/audiohub/internal/audit"
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/metrics"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

var (
	ErrMissingEmail      = errors.New("provider profile has no email")
	ErrMissingExternalID = errors.New("provider profile has no id")
	ErrAccountConflict   = errors.New("account conflict, retry")
	ErrInvalidUsername   = errors.New("provider login is not a valid username")
)

// Identity is what the provider asserted about the caller.
type Identity struct {
	ExternalID string
	Email      string
	Login      string
}

// ProvisioningService maps an Identity to exactly one account.
type ProvisioningService interface {
	// Resolve looks up by external id, then by email (linking the external
	// id on a hit), and otherwise creates a provider-only account.
	Resolve(ctx context.Context, id Identity) (*repository.User, error)
}

type provisioningService struct {
	users repository.UserRepository
}

func NewProvisioningService(users repository.UserRepository) ProvisioningService {
	return &provisioningService{users: users}
}

func (s *provisioningService) Resolve(ctx context.Context, id Identity) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.provisioning"),
		logger.Op("Resolve"),
	)

	email := repository.NormalizeEmail(id.Email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if strings.TrimSpace(id.ExternalID) == "" {
		return nil, ErrMissingExternalID
	}
	log = log.With(logger.ExternalID(id.ExternalID), logger.Email(email))

	u, err := s.users.GetByExternalID(ctx, id.ExternalID)
	switch {
	case err == nil:
		metrics.ObserveResolve("existing")
		return u, nil
	case !repository.IsNotFound(err):
		return nil, fmt.Errorf("lookup by external id: %w", err)
	}

	u, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		ext := id.ExternalID
		linked, err := s.users.Update(ctx, u.ID, repository.UpdateUserInput{ExternalID: &ext})
		if err != nil {
			return nil, s.storageErr(log, "link", err)
		}
		log.Info("external id linked to existing account", logger.UserID(linked.ID))
		audit.Log(ctx, audit.AccountLinked, logger.UserID(linked.ID), logger.ExternalID(id.ExternalID), logger.Provider("yandex"))
		metrics.ObserveResolve("linked")
		return linked, nil
	case !repository.IsNotFound(err):
		return nil, fmt.Errorf("lookup by email: %w", err)
	}

	ext := id.ExternalID
	created, err := s.users.Create(ctx, repository.CreateUserInput{
		Email:      email,
		Username:   id.Login,
		ExternalID: &ext,
	})
	if err != nil {
		return nil, s.storageErr(log, "create", err)
	}
	log.Info("account created from provider identity", logger.UserID(created.ID))
	audit.Log(ctx, audit.AccountCreated, logger.UserID(created.ID), logger.ExternalID(id.ExternalID), logger.Provider("yandex"))
	metrics.ObserveResolve("created")
	return created, nil
}

func (s *provisioningService) storageErr(log *zap.Logger, step string, err error) error {
	switch {
	case repository.IsConflict(err):
		log.Info("uniqueness violation", logger.String("step", step), logger.Err(err))
		metrics.ObserveResolve("conflict")
		return fmt.Errorf("%w: %v", ErrAccountConflict, err)
	case repository.IsInvalidEmail(err):
		return fmt.Errorf("%w: %v", ErrMissingEmail, err)
	case repository.IsInvalidInput(err):
		return fmt.Errorf("%w: %v", ErrInvalidUsername, err)
	default:
		return fmt.Errorf("%s account: %w", step, err)
	}
}
