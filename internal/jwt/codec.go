package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// TypeAccess marks a session credential usable as a bearer token.
const TypeAccess = "access"

// DefaultAccessTTL applies when neither the config nor the caller sets a TTL.
const DefaultAccessTTL = 30 * time.Minute

var (
	ErrExpiredCredential = errors.New("credential expired")
	ErrInvalidCredential = errors.New("credential invalid")
	ErrEmptySubject      = errors.New("empty subject")
)

// Claims is what a verified session credential asserts.
type Claims struct {
	Subject     string
	IsSuperuser bool
	Type        string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

type sessionClaims struct {
	IsSuperuser bool   `json:"is_superuser"`
	Type        string `json:"type"`
	jwtv5.RegisteredClaims
}

// Config configures a Codec. Now defaults to time.Now.
type Config struct {
	Secret     []byte
	Algorithm  string // HS256 | HS384 | HS512
	DefaultTTL time.Duration
	Now        func() time.Time
}

// Codec issues and verifies HMAC-signed session credentials.
// It never touches storage: liveness is the caller's job.
type Codec struct {
	secret []byte
	method *jwtv5.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
	parser *jwtv5.Parser
}

func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt: empty signing secret")
	}
	alg := strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	if alg == "" {
		alg = jwtv5.SigningMethodHS256.Alg()
	}
	method, ok := jwtv5.GetSigningMethod(alg).(*jwtv5.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwt: unsupported algorithm %q (want HS256, HS384 or HS512)", cfg.Algorithm)
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	c := &Codec{
		secret: append([]byte(nil), cfg.Secret...),
		method: method,
		ttl:    ttl,
		now:    now,
	}
	c.parser = jwtv5.NewParser(
		jwtv5.WithValidMethods([]string{method.Alg()}),
		jwtv5.WithoutClaimsValidation(),
	)
	return c, nil
}

// DefaultTTL is the lifetime used when Issue gets ttl <= 0.
func (c *Codec) DefaultTTL() time.Duration { return c.ttl }

// Issue signs {sub, is_superuser, iat, exp, type:"access"}.
func (c *Codec) Issue(subject string, isSuperuser bool, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrEmptySubject
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.now().UTC()
	// NumericDate keeps whole seconds; round exp up so the token never dies early.
	exp := now.Add(ttl)
	if exp.Nanosecond() != 0 {
		exp = exp.Truncate(time.Second).Add(time.Second)
	}
	claims := sessionClaims{
		IsSuperuser: isSuperuser,
		Type:        TypeAccess,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	tk := jwtv5.NewWithClaims(c.method, claims)
	signed, err := tk.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry and the access type marker.
func (c *Codec) Verify(token string) (*Claims, error) {
	var sc sessionClaims
	tok, err := c.parser.ParseWithClaims(token, &sc, func(*jwtv5.Token) (any, error) {
		return c.secret, nil
	})
	switch {
	case err == nil && tok.Valid:
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	default:
		return nil, ErrInvalidCredential
	}

	// Valid through exp inclusive.
	if sc.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidCredential)
	}
	if c.now().After(sc.ExpiresAt.Time) {
		return nil, ErrExpiredCredential
	}

	if sc.Type != TypeAccess {
		return nil, fmt.Errorf("%w: unexpected type %q", ErrInvalidCredential, sc.Type)
	}

	out := &Claims{
		Subject:     sc.Subject,
		IsSuperuser: sc.IsSuperuser,
		Type:        sc.Type,
	}
	if sc.IssuedAt != nil {
		out.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		out.ExpiresAt = sc.ExpiresAt.Time
	}
	return out, nil
}
