// Package social contains the provider login controllers.
package social

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/audiohub/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/audiohub/internal/http/errors"
	"github.com/dropDatabas3/audiohub/internal/http/helpers"
	"github.com/dropDatabas3/audiohub/internal/http/services/auth"
	svc "github.com/dropDatabas3/audiohub/internal/http/services/social"
	jwtx "github.com/dropDatabas3/audiohub/internal/jwt"
	"github.com/dropDatabas3/audiohub/internal/oauth/yandex"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

type YandexController struct {
	service svc.LoginService
}

func NewYandexController(service svc.LoginService) *YandexController {
	return &YandexController{service: service}
}

// Login handles POST /api/v1/auth/yandex. The code is read from the query
// string, a JSON body or a form body, in that order.
func (c *YandexController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Component("social.yandex"),
		logger.Op("Login"),
	)

	code, ok := readCode(w, r)
	if !ok {
		return
	}
	if code == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("code is required"))
		return
	}

	tok, err := c.service.Login(ctx, code)
	if err != nil {
		log.Info("provider login failed", logger.Err(err))
		writeLoginError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: tok, TokenType: "bearer"})
}

// AuthURL handles GET /api/v1/auth/yandex/url.
func (c *YandexController) AuthURL(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.AuthURLResponse{URL: c.service.AuthURL(r.URL.Query().Get("state"))})
}

func readCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	if code := strings.TrimSpace(r.URL.Query().Get("code")); code != "" {
		return code, true
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/json":
		var req dto.YandexLoginRequest
		if !helpers.ReadJSON(w, r, &req) {
			return "", false
		}
		return strings.TrimSpace(req.Code), true
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid form body"))
			return "", false
		}
		return strings.TrimSpace(r.PostFormValue("code")), true
	}
	return "", true
}

func writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, yandex.ErrProviderExchangeFailed):
		httperrors.WriteError(w, httperrors.ErrProviderError.WithDetail("Failed to get Yandex token"))
	case errors.Is(err, yandex.ErrProviderProfileFailed), errors.Is(err, svc.ErrMissingExternalID):
		httperrors.WriteError(w, httperrors.ErrProviderError.WithDetail("Failed to get user info from Yandex"))
	case errors.Is(err, svc.ErrMissingEmail):
		httperrors.WriteError(w, httperrors.ErrEmailNotProvided)
	case errors.Is(err, svc.ErrAccountConflict):
		httperrors.WriteError(w, httperrors.ErrAccountConflict)
	case errors.Is(err, svc.ErrInvalidUsername):
		httperrors.WriteError(w, httperrors.ErrInvalidUsername)
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, jwtx.ErrExpiredCredential),
		errors.Is(err, jwtx.ErrInvalidCredential):
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
	default:
		httperrors.WriteErrorLogged(w, r, err)
	}
}
