package yandex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/audiohub/internal/cache"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fakeProvider serves /token and /info like Yandex ID does.
type fakeProvider struct {
	t           *testing.T
	srv         *httptest.Server
	tokenStatus int
	infoStatus  int
	infoCalls   atomic.Int32
	lastForm    url.Values
}

func newFakeProvider(t *testing.T) *fakeProvider {
	fp := &fakeProvider{t: t, tokenStatus: http.StatusOK, infoStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		fp.lastForm = r.PostForm
		if fp.tokenStatus != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fp.tokenStatus)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code","error_description":"Code has expired"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok1",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		fp.infoCalls.Add(1)
		if r.Header.Get("Authorization") != "OAuth tok1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if fp.infoStatus != http.StatusOK {
			w.WriteHeader(fp.infoStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ext-1","default_email":"a@b.com","login":"alice","client_id":"cid"}`))
	})
	fp.srv = httptest.NewServer(mux)
	t.Cleanup(fp.srv.Close)
	return fp
}

func (fp *fakeProvider) client(pc *ProfileCache) *Client {
	return New(Config{
		ClientID:     "cid",
		ClientSecret: "csecret",
		RedirectURI:  "http://localhost/callback",
		AuthURL:      fp.srv.URL + "/authorize",
		TokenURL:     fp.srv.URL + "/token",
		InfoURL:      fp.srv.URL + "/info",
		Timeout:      2 * time.Second,
		Cache:        pc,
	})
}

func TestExchangeCode_Success(t *testing.T) {
	fp := newFakeProvider(t)
	c := fp.client(nil)

	tok, err := c.ExchangeCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "tok1", tok)

	assert.Equal(t, "authorization_code", fp.lastForm.Get("grant_type"))
	assert.Equal(t, "abc123", fp.lastForm.Get("code"))
	assert.Equal(t, "cid", fp.lastForm.Get("client_id"))
	assert.Equal(t, "csecret", fp.lastForm.Get("client_secret"))
	assert.Equal(t, "http://localhost/callback", fp.lastForm.Get("redirect_uri"))
}

func TestExchangeCode_Rejected(t *testing.T) {
	fp := newFakeProvider(t)
	fp.tokenStatus = http.StatusBadRequest
	c := fp.client(nil)

	_, err := c.ExchangeCode(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrProviderExchangeFailed)
}

func TestExchangeCode_EmptyCode(t *testing.T) {
	fp := newFakeProvider(t)
	_, err := fp.client(nil).ExchangeCode(context.Background(), "")
	assert.ErrorIs(t, err, ErrProviderExchangeFailed)
}

func TestExchangeCode_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	c := New(Config{ClientID: "cid", TokenURL: slow.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.ExchangeCode(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrProviderExchangeFailed)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchProfile_Success(t *testing.T) {
	fp := newFakeProvider(t)
	p, err := fp.client(nil).FetchProfile(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, &Profile{ExternalID: "ext-1", Email: "a@b.com", Login: "alice"}, p)
}

func TestFetchProfile_Failures(t *testing.T) {
	fp := newFakeProvider(t)
	c := fp.client(nil)

	_, err := c.FetchProfile(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrProviderProfileFailed)

	fp.infoStatus = http.StatusInternalServerError
	_, err = c.FetchProfile(context.Background(), "tok1")
	assert.ErrorIs(t, err, ErrProviderProfileFailed)

	_, err = c.FetchProfile(context.Background(), "")
	assert.ErrorIs(t, err, ErrProviderProfileFailed)
}

func TestFetchProfile_CachedWithinTTL(t *testing.T) {
	fp := newFakeProvider(t)
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	pc := NewProfileCache(cache.NewMemory(cache.Config{MaxItems: 1000}), 5*time.Minute, clock.Now)
	c := fp.client(pc)
	ctx := context.Background()

	_, err := c.FetchProfile(ctx, "tok1")
	require.NoError(t, err)
	clock.Advance(4*time.Minute + 59*time.Second)
	p, err := c.FetchProfile(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "ext-1", p.ExternalID)
	assert.Equal(t, int32(1), fp.infoCalls.Load(), "second call served from cache")

	clock.Advance(time.Second)
	_, err = c.FetchProfile(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fp.infoCalls.Load(), "expired entry falls back to a live fetch")
}

func TestFetchProfile_FailureNotCached(t *testing.T) {
	fp := newFakeProvider(t)
	pc := NewProfileCache(cache.NewMemory(cache.Config{}), time.Minute, nil)
	c := fp.client(pc)

	fp.infoStatus = http.StatusServiceUnavailable
	_, err := c.FetchProfile(context.Background(), "tok1")
	require.ErrorIs(t, err, ErrProviderProfileFailed)

	fp.infoStatus = http.StatusOK
	_, err = c.FetchProfile(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fp.infoCalls.Load())
}

func TestFetchProfile_Concurrent(t *testing.T) {
	fp := newFakeProvider(t)
	pc := NewProfileCache(cache.NewMemory(cache.Config{}), time.Minute, nil)
	c := fp.client(pc)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := c.FetchProfile(context.Background(), "tok1")
			if assert.NoError(t, err) {
				assert.Equal(t, "a@b.com", p.Email)
			}
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, fp.infoCalls.Load(), int32(1))
}

func TestFetchProfile_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ext-1","default_email":"a@b.com","login":"alice"}`))
	}))
	defer srv.Close()

	pc := NewProfileCache(cache.NewMemory(cache.Config{}), time.Minute, nil)
	c := New(Config{ClientID: "cid", InfoURL: srv.URL, Timeout: 5 * time.Second, Cache: pc})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.FetchProfile(firstCtx, "tok1")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	type result struct {
		p   *Profile
		err error
	}
	second := make(chan result, 1)
	go func() {
		p, err := c.FetchProfile(context.Background(), "tok1")
		second <- result{p, err}
	}()

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrProviderProfileFailed)
		assert.ErrorContains(t, err, context.Canceled.Error())
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Equal(t, "ext-1", res.p.ExternalID)
	case <-time.After(3 * time.Second):
		t.Fatal("second caller did not return")
	}
	assert.Equal(t, int32(1), calls.Load(), "one upstream request served both callers")

	p, err := c.FetchProfile(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, int32(1), calls.Load(), "result cached despite the first caller cancelling")
}

func TestAuthURL(t *testing.T) {
	fp := newFakeProvider(t)
	raw := fp.client(nil).AuthURL("xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.Equal(t, "xyz", u.Query().Get("state"))
}
