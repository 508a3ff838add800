package middlewares

import (
	"context"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

type ctxKey string

const (
	ctxUserKey      ctxKey = "user"
	ctxRequestIDKey ctxKey = "request_id"
	ctxClientIPKey  ctxKey = "client_ip"
)

// WithUser stores the authenticated account.
func WithUser(ctx context.Context, u *repository.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

func setClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxClientIPKey, ip)
}

// GetUser returns nil outside RequireUser.
func GetUser(ctx context.Context) *repository.User {
	u, _ := ctx.Value(ctxUserKey).(*repository.User)
	return u
}

// MustGetUser panics when RequireUser was not applied. The recover
// middleware turns that into a 500.
func MustGetUser(ctx context.Context) *repository.User {
	u := GetUser(ctx)
	if u == nil {
		panic("middlewares: no user in context")
	}
	return u
}

func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}

// GetClientIP returns "" outside WithClientIP.
func GetClientIP(ctx context.Context) string {
	s, _ := ctx.Value(ctxClientIPKey).(string)
	return s
}
