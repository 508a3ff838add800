package jwt

import (
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCodec(t *testing.T, clock *fakeClock) *Codec {
	t.Helper()
	c, err := NewCodec(Config{
		Secret:     []byte("test-secret-0123456789"),
		Algorithm:  "HS256",
		DefaultTTL: 30 * time.Minute,
		Now:        clock.Now,
	})
	require.NoError(t, err)
	return c
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	c := newTestCodec(t, clock)

	cases := []struct {
		sub   string
		super bool
	}{
		{"a@b.com", false},
		{"root@example.org", true},
		{"ünïcode@example.org", false},
	}
	for _, tc := range cases {
		tok, err := c.Issue(tc.sub, tc.super, 0)
		require.NoError(t, err)

		claims, err := c.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, tc.sub, claims.Subject)
		assert.Equal(t, tc.super, claims.IsSuperuser)
		assert.Equal(t, TypeAccess, claims.Type)
		assert.WithinDuration(t, clock.t.Add(30*time.Minute), claims.ExpiresAt, 0)
	}
}

func TestIssue_EmptySubject(t *testing.T) {
	c := newTestCodec(t, &fakeClock{t: time.Now()})
	_, err := c.Issue("  ", false, 0)
	require.ErrorIs(t, err, ErrEmptySubject)
}

func TestVerify_TTLBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, clock)

	ttl := 10 * time.Minute
	tok, err := c.Issue("a@b.com", false, ttl)
	require.NoError(t, err)

	clock.Advance(ttl - time.Second)
	_, err = c.Verify(tok)
	require.NoError(t, err, "token must be accepted before its TTL elapses")

	clock.Advance(time.Second)
	_, err = c.Verify(tok)
	require.NoError(t, err, "token must be accepted exactly at its TTL")

	clock.Advance(time.Second)
	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrExpiredCredential)
}

func TestVerify_SubSecondIssueTime(t *testing.T) {
	issued := time.Date(2026, 5, 1, 12, 0, 0, 700*int(time.Millisecond), time.UTC)
	clock := &fakeClock{t: issued}
	c := newTestCodec(t, clock)

	ttl := 10 * time.Minute
	tok, err := c.Issue("a@b.com", false, ttl)
	require.NoError(t, err)

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	assert.False(t, claims.ExpiresAt.Before(issued.Add(ttl)), "exp must not fall before issue time plus TTL")
	assert.Equal(t, time.Date(2026, 5, 1, 12, 10, 1, 0, time.UTC), claims.ExpiresAt.UTC())

	clock.t = issued.Add(ttl - 500*time.Millisecond)
	_, err = c.Verify(tok)
	require.NoError(t, err)

	clock.t = issued.Add(ttl)
	_, err = c.Verify(tok)
	require.NoError(t, err)

	clock.t = claims.ExpiresAt.Add(time.Millisecond)
	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrExpiredCredential)
}

func TestVerify_MissingExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newTestCodec(t, clock)

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{"sub": "a@b.com", "type": TypeAccess})
	raw, err := tk.SignedString([]byte("test-secret-0123456789"))
	require.NoError(t, err)

	_, err = c.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_TamperedSignature(t *testing.T) {
	c := newTestCodec(t, &fakeClock{t: time.Now()})
	tok, err := c.Issue("a@b.com", false, 0)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	for i := 0; i < len(sig)-1; i++ {
		mutated := append([]byte(nil), sig...)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		bad := parts[0] + "." + parts[1] + "." + string(mutated)
		_, err := c.Verify(bad)
		require.ErrorIs(t, err, ErrInvalidCredential, "byte %d", i)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newTestCodec(t, clock)
	other, err := NewCodec(Config{Secret: []byte("another-secret"), Now: clock.Now})
	require.NoError(t, err)

	tok, err := other.Issue("a@b.com", true, 0)
	require.NoError(t, err)
	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_AlgorithmMismatch(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newTestCodec(t, clock)
	hs512, err := NewCodec(Config{Secret: []byte("test-secret-0123456789"), Algorithm: "HS512", Now: clock.Now})
	require.NoError(t, err)

	tok, err := hs512.Issue("a@b.com", false, 0)
	require.NoError(t, err)
	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidCredential)

	none := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, jwtv5.MapClaims{
		"sub": "a@b.com", "type": TypeAccess, "exp": clock.Now().Add(time.Hour).Unix(),
	})
	unsigned, err := none.SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_Malformed(t *testing.T) {
	c := newTestCodec(t, &fakeClock{t: time.Now()})
	for _, raw := range []string{"", "abc", "a.b.c", "...."} {
		_, err := c.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidCredential, raw)
	}
}

func TestVerify_RejectsNonAccessType(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newTestCodec(t, clock)
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"sub":  "a@b.com",
		"type": "refresh",
		"exp":  clock.Now().Add(time.Hour).Unix(),
	})
	tok, err := tk.SignedString([]byte("test-secret-0123456789"))
	require.NoError(t, err)

	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestNewCodec_Validation(t *testing.T) {
	_, err := NewCodec(Config{})
	require.Error(t, err)

	_, err = NewCodec(Config{Secret: []byte("x"), Algorithm: "RS256"})
	require.Error(t, err)

	c, err := NewCodec(Config{Secret: []byte("x"), Algorithm: "hs384"})
	require.NoError(t, err)
	assert.Equal(t, DefaultAccessTTL, c.DefaultTTL())
}
