// Package controllers groups the HTTP controllers by domain.
package controllers

import (
	"github.com/dropDatabas3/audiohub/internal/http/controllers/admin"
	"github.com/dropDatabas3/audiohub/internal/http/controllers/audio"
	"github.com/dropDatabas3/audiohub/internal/http/controllers/auth"
	"github.com/dropDatabas3/audiohub/internal/http/controllers/health"
	"github.com/dropDatabas3/audiohub/internal/http/controllers/social"
	"github.com/dropDatabas3/audiohub/internal/http/services"
)

type Controllers struct {
	Auth   *auth.AuthController
	Yandex *social.YandexController
	Audio  *audio.AudioController
	Admin  *admin.UsersController
	Health *health.HealthController
}

func New(s services.Services, maxUploadSize int64) *Controllers {
	return &Controllers{
		Auth:   auth.NewAuthController(s.Auth.Login),
		Yandex: social.NewYandexController(s.Social.Yandex),
		Audio:  audio.NewAudioController(s.Audio, maxUploadSize),
		Admin:  admin.NewUsersController(s.Admin),
		Health: health.NewHealthController(s.Health),
	}
}
