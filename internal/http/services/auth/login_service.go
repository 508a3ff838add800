package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/audiohub/internal/audit"
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/metrics"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
	"github.com/dropDatabas3/audiohub/internal/security/password"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LoginService authenticates accounts that have a local password.
type LoginService interface {
	LoginPassword(ctx context.Context, email, plain string) (string, error)
}

type LoginDeps struct {
	Users    repository.UserRepository
	Hasher   *password.Hasher
	Sessions SessionService
}

type loginService struct {
	deps LoginDeps
}

func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) LoginPassword(ctx context.Context, email, plain string) (tok string, err error) {
	defer func() { metrics.ObserveLogin("password", err) }()

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("LoginPassword"),
	)

	email = repository.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(plain) == "" {
		return "", ErrMissingFields
	}

	user, err := s.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("user not found")
			audit.Log(ctx, audit.LoginFailed, logger.Email(email), logger.String("method", "password"))
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	log = log.With(logger.UserID(user.ID))

	if !user.HasPassword() || !s.deps.Hasher.Verify(plain, *user.HashedPassword) {
		log.Debug("password check failed")
		audit.Log(ctx, audit.LoginFailed, logger.UserID(user.ID), logger.String("method", "password"))
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Info("inactive account login attempt")
		return "", ErrInvalidCredentials
	}

	audit.Log(ctx, audit.LoginSucceeded, logger.UserID(user.ID), logger.String("method", "password"))
	return s.deps.Sessions.IssueSession(user.Email, user.IsSuperuser)
}
