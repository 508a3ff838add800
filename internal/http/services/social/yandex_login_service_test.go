package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/audiohub/internal/jwt"
	"github.com/dropDatabas3/audiohub/internal/oauth/yandex"
	"github.com/dropDatabas3/audiohub/internal/store/memory"
)

type provider struct {
	srv     *httptest.Server
	profile map[string]string
}

// newProvider accepts code "abc123" only and answers tok1 with profile.
func newProvider(t *testing.T, profile map[string]string) *provider {
	t.Helper()
	p := &provider{profile: profile}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "abc123" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok1","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "OAuth tok1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p.profile)
	})
	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

type loginEnv struct {
	store *memory.Store
	codec *jwtx.Codec
	svcs  Services
}

func newLoginEnv(t *testing.T, p *provider) *loginEnv {
	t.Helper()
	st := memory.New()
	codec, err := jwtx.NewCodec(jwtx.Config{Secret: []byte("s3cret")})
	require.NoError(t, err)
	client := yandex.New(yandex.Config{
		ClientID:     "cid",
		ClientSecret: "csecret",
		RedirectURI:  "http://localhost/cb",
		TokenURL:     p.srv.URL + "/token",
		InfoURL:      p.srv.URL + "/info",
		Timeout:      2 * time.Second,
	})
	sessions := auth.NewSessionService(auth.SessionDeps{Codec: codec, Users: st.Users()})
	return &loginEnv{
		store: st,
		codec: codec,
		svcs:  NewServices(Deps{Users: st.Users(), Provider: client, Sessions: sessions}),
	}
}

func TestYandexLogin_FirstLoginScenario(t *testing.T) {
	p := newProvider(t, map[string]string{"id": "ext-1", "default_email": "a@b.com", "login": "alice"})
	env := newLoginEnv(t, p)

	tok, err := env.svcs.Yandex.Login(context.Background(), "abc123")
	require.NoError(t, err)

	claims, err := env.codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.False(t, claims.IsSuperuser)

	u, err := env.store.Users().GetByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestYandexLogin_BadCode(t *testing.T) {
	p := newProvider(t, map[string]string{"id": "ext-1", "default_email": "a@b.com", "login": "alice"})
	env := newLoginEnv(t, p)

	_, err := env.svcs.Yandex.Login(context.Background(), "nope")
	assert.ErrorIs(t, err, yandex.ErrProviderExchangeFailed)

	_, err = env.svcs.Yandex.Login(context.Background(), "  ")
	assert.ErrorIs(t, err, yandex.ErrProviderExchangeFailed)
}

func TestYandexLogin_ProfileWithoutEmail(t *testing.T) {
	p := newProvider(t, map[string]string{"id": "ext-1", "login": "alice"})
	env := newLoginEnv(t, p)

	_, err := env.svcs.Yandex.Login(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestYandexLogin_InactiveAccountRefused(t *testing.T) {
	p := newProvider(t, map[string]string{"id": "ext-1", "default_email": "a@b.com", "login": "alice"})
	env := newLoginEnv(t, p)
	ext := "ext-1"
	u, err := env.store.Users().Create(context.Background(), repository.CreateUserInput{
		Email: "a@b.com", Username: "alice", ExternalID: &ext, Inactive: true,
	})
	require.NoError(t, err)
	require.False(t, u.IsActive)

	_, err = env.svcs.Yandex.Login(context.Background(), "abc123")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestYandexLogin_AuthURL(t *testing.T) {
	p := newProvider(t, nil)
	env := newLoginEnv(t, p)
	u := env.svcs.Yandex.AuthURL("xyz")
	assert.Contains(t, u, "client_id=cid")
	assert.Contains(t, u, "state=xyz")
}
