// Package auth contains the session gate and the local-credential login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	jwtx "github.com/dropDatabas3/audiohub/internal/jwt"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

// ErrUnauthenticated is the only failure callers see from ValidateAndLoad:
// bad token, unknown subject and inactive account are indistinguishable.
var ErrUnauthenticated = errors.New("unauthenticated")

// SessionService issues session tokens and resolves them back to live accounts.
type SessionService interface {
	IssueSession(email string, isSuperuser bool) (string, error)

	// ValidateAndLoad verifies the token and reloads the account on every
	// call, so deactivation takes effect for tokens already issued. Storage
	// failures are returned as-is, not as ErrUnauthenticated.
	ValidateAndLoad(ctx context.Context, token string) (*repository.User, error)

	TokenTTL() time.Duration
}

type SessionDeps struct {
	Codec *jwtx.Codec
	Users repository.UserRepository
}

type sessionService struct {
	deps SessionDeps
}

func NewSessionService(deps SessionDeps) SessionService {
	return &sessionService{deps: deps}
}

func (s *sessionService) TokenTTL() time.Duration { return s.deps.Codec.DefaultTTL() }

func (s *sessionService) IssueSession(email string, isSuperuser bool) (string, error) {
	tok, err := s.deps.Codec.Issue(email, isSuperuser, 0)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return tok, nil
}

func (s *sessionService) ValidateAndLoad(ctx context.Context, token string) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.session"),
		logger.Op("ValidateAndLoad"),
	)

	claims, err := s.deps.Codec.Verify(token)
	if err != nil {
		log.Debug("token rejected", logger.Err(err))
		return nil, ErrUnauthenticated
	}
	if claims.Subject == "" {
		log.Debug("token without subject")
		return nil, ErrUnauthenticated
	}

	user, err := s.deps.Users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("subject not found", logger.Email(claims.Subject))
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	if !user.IsActive {
		log.Info("inactive account presented a token", logger.UserID(user.ID))
		return nil, ErrUnauthenticated
	}
	return user, nil
}
