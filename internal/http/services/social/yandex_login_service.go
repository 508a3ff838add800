package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/audiohub/internal/audit"
	"github.com/dropDatabas3/audiohub/internal/http/services/auth"
	"github.com/dropDatabas3/audiohub/internal/metrics"
	"github.com/dropDatabas3/audiohub/internal/oauth/yandex"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

// ProviderClient is the part of yandex.Client the login flow needs.
type ProviderClient interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*yandex.Profile, error)
}

// LoginService runs the authorization-code login end to end.
type LoginService interface {
	// Login exchanges code, resolves the account and returns a session token.
	Login(ctx context.Context, code string) (string, error)
	AuthURL(state string) string
}

type LoginDeps struct {
	Provider     ProviderClient
	Provisioning ProvisioningService
	Sessions     auth.SessionService
}

type yandexLoginService struct {
	deps LoginDeps
}

func NewYandexLoginService(deps LoginDeps) LoginService {
	return &yandexLoginService{deps: deps}
}

func (s *yandexLoginService) AuthURL(state string) string {
	return s.deps.Provider.AuthURL(state)
}

func (s *yandexLoginService) Login(ctx context.Context, code string) (tok string, err error) {
	defer func() { metrics.ObserveLogin("yandex", err) }()

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.yandex"),
		logger.Op("Login"),
		logger.Provider("yandex"),
	)

	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty code", yandex.ErrProviderExchangeFailed)
	}

	providerToken, err := s.deps.Provider.ExchangeCode(ctx, code)
	if err != nil {
		log.Warn("code exchange failed", logger.Err(err))
		return "", err
	}

	profile, err := s.deps.Provider.FetchProfile(ctx, providerToken)
	if err != nil {
		log.Warn("profile fetch failed", logger.Err(err))
		return "", err
	}

	user, err := s.deps.Provisioning.Resolve(ctx, Identity{
		ExternalID: profile.ExternalID,
		Email:      profile.Email,
		Login:      profile.Login,
	})
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		log.Info("inactive account tried provider login", logger.UserID(user.ID))
		return "", fmt.Errorf("%w: account inactive", auth.ErrUnauthenticated)
	}

	audit.Log(ctx, audit.LoginSucceeded, logger.UserID(user.ID), logger.String("method", "yandex"))
	return s.deps.Sessions.IssueSession(user.Email, user.IsSuperuser)
}
