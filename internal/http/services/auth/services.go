package auth

import (
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	jwtx "github.com/dropDatabas3/audiohub/internal/jwt"
	"github.com/dropDatabas3/audiohub/internal/security/password"
)

type Deps struct {
	Codec  *jwtx.Codec
	Users  repository.UserRepository
	Hasher *password.Hasher
}

// Services groups the auth domain services.
type Services struct {
	Session SessionService
	Login   LoginService
}

func NewServices(d Deps) Services {
	session := NewSessionService(SessionDeps{Codec: d.Codec, Users: d.Users})
	return Services{
		Session: session,
		Login: NewLoginService(LoginDeps{
			Users:    d.Users,
			Hasher:   d.Hasher,
			Sessions: session,
		}),
	}
}
