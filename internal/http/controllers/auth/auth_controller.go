// Package auth contains the local login and current-user controllers.
package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/audiohub/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/audiohub/internal/http/errors"
	"github.com/dropDatabas3/audiohub/internal/http/helpers"
	mw "github.com/dropDatabas3/audiohub/internal/http/middlewares"
	svc "github.com/dropDatabas3/audiohub/internal/http/services/auth"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

type AuthController struct {
	login svc.LoginService
}

func NewAuthController(login svc.LoginService) *AuthController {
	return &AuthController{login: login}
}

// Login handles POST /api/v1/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	tok, err := c.login.LoginPassword(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email and password are required"))
		case errors.Is(err, svc.ErrInvalidCredentials):
			log.Info("login rejected", logger.Email(req.Email))
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
		default:
			httperrors.WriteErrorLogged(w, r, err)
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: tok, TokenType: "bearer"})
}

// Me handles GET /api/v1/users/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	u := mw.MustGetUser(r.Context())
	helpers.WriteJSON(w, http.StatusOK, dto.UserFrom(u))
}
