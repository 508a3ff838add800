package middlewares

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/audiohub/internal/http/errors"
	"github.com/dropDatabas3/audiohub/internal/http/services/auth"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireUser resolves the bearer token to an active account and stores it
// in the context. Every auth failure is the same 401.
func RequireUser(sessions auth.SessionService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			u, err := sessions.ValidateAndLoad(r.Context(), tok)
			if err != nil {
				if stderrors.Is(err, auth.ErrUnauthenticated) {
					errors.WriteError(w, errors.ErrUnauthorized)
					return
				}
				errors.WriteErrorLogged(w, r, err)
				return
			}
			ctx := WithUser(r.Context(), u)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(u.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperuser must run after RequireUser. The flag is read from the
// freshly loaded account, not from the token.
func RequireSuperuser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUser(r.Context())
			if u == nil {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			if !u.IsSuperuser {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
