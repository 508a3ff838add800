package auth

import (
	"time"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

// UserOut is the public view of an account. The password hash never leaves
// the service.
type UserOut struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	YandexID    *string   `json:"yandex_id"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

func UserFrom(u *repository.User) UserOut {
	return UserOut{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		YandexID:    u.ExternalID,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
	}
}

func UsersFrom(in []repository.User) []UserOut {
	out := make([]UserOut, 0, len(in))
	for i := range in {
		out = append(out, UserFrom(&in[i]))
	}
	return out
}
