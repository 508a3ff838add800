// Package services wires the domain services behind the HTTP controllers.
package services

import (
	"github.com/dropDatabas3/audiohub/internal/blob"
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/http/services/admin"
	"github.com/dropDatabas3/audiohub/internal/http/services/audio"
	"github.com/dropDatabas3/audiohub/internal/http/services/auth"
	"github.com/dropDatabas3/audiohub/internal/http/services/health"
	"github.com/dropDatabas3/audiohub/internal/http/services/social"
	jwtx "github.com/dropDatabas3/audiohub/internal/jwt"
	"github.com/dropDatabas3/audiohub/internal/security/password"
)

type Deps struct {
	Store    repository.Store
	Codec    *jwtx.Codec
	Hasher   *password.Hasher
	Provider social.ProviderClient
	Blobs    blob.Store

	MaxUploadSize     int64
	AllowedExtensions []string

	Version      string
	HealthChecks map[string]health.Pinger
	HealthOrder  []string
}

// Services is every domain service the router needs.
type Services struct {
	Auth   auth.Services
	Social social.Services
	Audio  audio.Service
	Admin  admin.UsersService
	Health health.Service
}

func New(d Deps) Services {
	authSvcs := auth.NewServices(auth.Deps{
		Codec:  d.Codec,
		Users:  d.Store.Users(),
		Hasher: d.Hasher,
	})
	audioSvc := audio.NewService(audio.Deps{
		Audios:            d.Store.Audios(),
		Blobs:             d.Blobs,
		MaxSize:           d.MaxUploadSize,
		AllowedExtensions: d.AllowedExtensions,
	})
	return Services{
		Auth: authSvcs,
		Social: social.NewServices(social.Deps{
			Users:    d.Store.Users(),
			Provider: d.Provider,
			Sessions: authSvcs.Session,
		}),
		Audio: audioSvc,
		Admin: admin.NewUsersService(admin.Deps{
			Users:  d.Store.Users(),
			Hasher: d.Hasher,
			Audio:  audioSvc,
		}),
		Health: health.NewService(health.Deps{
			Version: d.Version,
			Checks:  d.HealthChecks,
			Order:   d.HealthOrder,
		}),
	}
}
