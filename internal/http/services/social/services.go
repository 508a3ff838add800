package social

import (
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/http/services/auth"
)

type Deps struct {
	Users    repository.UserRepository
	Provider ProviderClient
	Sessions auth.SessionService
}

type Services struct {
	Provisioning ProvisioningService
	Yandex       LoginService
}

func NewServices(d Deps) Services {
	prov := NewProvisioningService(d.Users)
	return Services{
		Provisioning: prov,
		Yandex: NewYandexLoginService(LoginDeps{
			Provider:     d.Provider,
			Provisioning: prov,
			Sessions:     d.Sessions,
		}),
	}
}
