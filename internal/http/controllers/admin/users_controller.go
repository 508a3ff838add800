// Package admin contains the superuser account management controllers.
package admin

import (
	"errors"
	"net/http"

	dtoadmin "github.com/dropDatabas3/audiohub/internal/http/dto/admin"
	dtoauth "github.com/dropDatabas3/audiohub/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/audiohub/internal/http/errors"
	"github.com/dropDatabas3/audiohub/internal/http/helpers"
	mw "github.com/dropDatabas3/audiohub/internal/http/middlewares"
	svc "github.com/dropDatabas3/audiohub/internal/http/services/admin"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
	"github.com/dropDatabas3/audiohub/internal/security/password"
)

type UsersController struct {
	service svc.UsersService
}

func NewUsersController(service svc.UsersService) *UsersController {
	return &UsersController{service: service}
}

// List handles GET /api/v1/admin/users.
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	f, err := helpers.ListFilter(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	users, err := c.service.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dtoauth.UsersFrom(users))
}

// Create handles POST /api/v1/admin/users.
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	var req dtoadmin.CreateUserRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	u, err := c.service.Create(r.Context(), svc.CreateUserInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		ExternalID:  req.YandexID,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.From(r.Context()).Info("admin created user",
		logger.Layer("controller"), logger.Op("Users.Create"), logger.Any("target_id", u.ID))
	helpers.WriteJSON(w, http.StatusCreated, dtoauth.UserFrom(u))
}

// Update handles PATCH /api/v1/admin/users/{id}.
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dtoadmin.UpdateUserRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	u, err := c.service.Update(r.Context(), id, svc.UpdateUserInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dtoauth.UserFrom(u))
}

// Deactivate handles POST /api/v1/admin/users/{id}/deactivate.
func (c *UsersController) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	u, err := c.service.Deactivate(r.Context(), mw.MustGetUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dtoauth.UserFrom(u))
}

// Delete handles DELETE /api/v1/admin/users/{id}.
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Delete(r.Context(), mw.MustGetUser(r.Context()).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)
	case errors.Is(err, svc.ErrConflict):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("email, username or yandex_id already in use"))
	case errors.Is(err, svc.ErrSelfAction):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("cannot deactivate or delete your own account"))
	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrInvalidEmail)
	case errors.Is(err, svc.ErrInvalidUsername):
		httperrors.WriteError(w, httperrors.ErrInvalidUsername)
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email and username are required"))
	case errors.Is(err, password.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak)
	case errors.Is(err, password.ErrPasswordTooLong):
		httperrors.WriteError(w, httperrors.ErrPasswordTooLong)
	default:
		httperrors.WriteErrorLogged(w, r, err)
	}
}
