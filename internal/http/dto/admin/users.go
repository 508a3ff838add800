// Package admin contains DTOs for the superuser endpoints.
package admin

// CreateUserRequest creates an account directly. Password is optional:
// accounts without one can only log in through the provider.
type CreateUserRequest struct {
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	Password    *string `json:"password,omitempty"`
	YandexID    *string `json:"yandex_id,omitempty"`
	IsSuperuser bool    `json:"is_superuser"`
}

// UpdateUserRequest is a partial update: absent fields are left unchanged.
type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty"`
	Username    *string `json:"username,omitempty"`
	Password    *string `json:"password,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}
