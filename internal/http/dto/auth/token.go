// Package auth contains DTOs for the authentication endpoints.
package auth

// TokenResponse is returned by every login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "bearer"
}

// YandexLoginRequest carries the authorization code when it is sent in the
// body instead of the query string.
type YandexLoginRequest struct {
	Code string `json:"code"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

// LoginRequest is the local-credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
