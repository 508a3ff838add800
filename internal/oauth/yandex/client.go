// Package yandex implements the Yandex ID OAuth 2.0 authorization-code flow:
// code exchange against the token endpoint and profile lookup against the
// login info endpoint. Yandex does not issue ID tokens, so the profile call
// is the only source of the user's identity.
package yandex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/audiohub/internal/metrics"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

const (
	DefaultAuthURL  = "https://oauth.yandex.ru/authorize"
	DefaultTokenURL = "https://oauth.yandex.ru/token"
	DefaultInfoURL  = "https://login.yandex.ru/info?format=json"
	DefaultTimeout  = 10 * time.Second
)

var (
	// ErrProviderExchangeFailed: the token endpoint rejected the code or was unreachable.
	ErrProviderExchangeFailed = errors.New("provider code exchange failed")
	// ErrProviderProfileFailed: the info endpoint rejected the token or was unreachable.
	ErrProviderProfileFailed = errors.New("provider profile fetch failed")
)

// Profile is the subset of the Yandex info response the service uses.
type Profile struct {
	ExternalID string `json:"id"`
	Email      string `json:"default_email"`
	Login      string `json:"login"`
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL  string
	TokenURL string
	InfoURL  string

	// Timeout bounds both the exchange and the profile call when HTTPClient is nil.
	Timeout    time.Duration
	HTTPClient *http.Client

	// Cache is optional; nil disables profile caching.
	Cache *ProfileCache
}

// Client talks to Yandex ID.
type Client struct {
	oauth   *oauth2.Config
	infoURL string
	http    *http.Client
	cache   *ProfileCache
	group   singleflight.Group
}

func New(cfg Config) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.InfoURL == "" {
		cfg.InfoURL = DefaultInfoURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		infoURL: cfg.InfoURL,
		http:    hc,
		cache:   cfg.Cache,
	}
}

// AuthURL returns the authorize URL the browser is sent to.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for a provider access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: empty code", ErrProviderExchangeFailed)
	}
	log := logger.From(ctx).With(logger.Component("yandex"), logger.Op("ExchangeCode"))

	// oauth2 picks the HTTP client up from the context.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	start := time.Now()
	tok, err := c.oauth.Exchange(ctx, code)
	metrics.ObserveProvider("exchange", err, time.Since(start))
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			log.Info("token endpoint rejected code", logger.Status(re.Response.StatusCode), logger.String("error_code", re.ErrorCode))
		} else {
			log.Warn("token exchange failed", logger.Err(err))
		}
		return "", fmt.Errorf("%w: %v", ErrProviderExchangeFailed, err)
	}
	return tok.AccessToken, nil
}

// FetchProfile returns the profile for accessToken, from cache when possible.
// Concurrent misses for the same token share one upstream call.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: empty token", ErrProviderProfileFailed)
	}
	if p, ok := c.cache.Get(ctx, accessToken); ok {
		return p, nil
	}

	// The shared fetch outlives any single caller; each caller still honours
	// its own ctx while waiting.
	ch := c.group.DoChan(profileKey(accessToken), func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		p, err := c.fetchProfile(fctx, accessToken)
		if err != nil {
			return nil, err
		}
		c.cache.Set(fctx, accessToken, p)
		return p, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrProviderProfileFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p := *res.Val.(*Profile)
		return &p, nil
	}
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	log := logger.From(ctx).With(logger.Component("yandex"), logger.Op("FetchProfile"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.infoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderProfileFailed, err)
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	p, err := c.doProfile(req)
	metrics.ObserveProvider("profile", err, time.Since(start))
	if err != nil {
		log.Warn("profile fetch failed", logger.Err(err))
		return nil, err
	}
	return p, nil
}

func (c *Client) doProfile(req *http.Request) (*Profile, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderProfileFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: status %d", ErrProviderProfileFailed, resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProviderProfileFailed, err)
	}
	if p.ExternalID == "" {
		return nil, fmt.Errorf("%w: profile without id", ErrProviderProfileFailed)
	}
	return &p, nil
}
