// Package audio contains the audio file controllers. Every route runs
// behind RequireUser and only touches the caller's own files.
package audio

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/audiohub/internal/http/dto/audio"
	httperrors "github.com/dropDatabas3/audiohub/internal/http/errors"
	"github.com/dropDatabas3/audiohub/internal/http/helpers"
	mw "github.com/dropDatabas3/audiohub/internal/http/middlewares"
	svc "github.com/dropDatabas3/audiohub/internal/http/services/audio"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

// multipartOverhead covers boundaries and the optional name field.
const multipartOverhead = 1 << 20

type AudioController struct {
	service svc.Service
	maxSize int64
}

func NewAudioController(service svc.Service, maxSize int64) *AudioController {
	if maxSize <= 0 {
		maxSize = svc.DefaultMaxSize
	}
	return &AudioController{service: service, maxSize: maxSize}
}

// Upload handles POST /api/v1/audio/upload (multipart: file, optional name).
func (c *AudioController) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := mw.MustGetUser(ctx)
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Component("audio"),
		logger.Op("Upload"),
	)

	r.Body = http.MaxBytesReader(w, r.Body, c.maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			httperrors.WriteError(w, httperrors.ErrInvalidFile.WithDetail("File too large"))
			return
		}
		log.Debug("invalid multipart body", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("multipart form with a file field is required"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("file is required"))
		return
	}
	defer file.Close()

	a, err := c.service.Upload(ctx, user.ID, svc.UploadInput{
		Filename: header.Filename,
		Name:     r.FormValue("name"),
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.From(a))
}

// List handles GET /api/v1/audio/.
func (c *AudioController) List(w http.ResponseWriter, r *http.Request) {
	f, err := helpers.ListFilter(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	list, err := c.service.List(r.Context(), mw.MustGetUser(r.Context()).ID, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListFrom(list))
}

// Get handles GET /api/v1/audio/{id}.
func (c *AudioController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	a, err := c.service.Get(r.Context(), mw.MustGetUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.From(a))
}

// Rename handles PATCH /api/v1/audio/{id}.
func (c *AudioController) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.RenameRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	a, err := c.service.Rename(r.Context(), mw.MustGetUser(r.Context()).ID, id, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.From(a))
}

// Delete handles DELETE /api/v1/audio/{id}.
func (c *AudioController) Delete(w http.ResponseWriter, r *http.Request) {
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
	case errors.Is(err, svc.ErrInvalidExtension):
		httperrors.WriteError(w, httperrors.ErrInvalidFile.WithDetail("Invalid file extension"))
	case errors.Is(err, svc.ErrFileTooLarge):
		httperrors.WriteError(w, httperrors.ErrInvalidFile.WithDetail("File too large"))
	case errors.Is(err, svc.ErrMissingFile):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("file is required"))
	case errors.Is(err, svc.ErrInvalidName):
		httperrors.WriteError(w, httperrors.ErrUnprocessableEntity.WithDetail("name has no allowed characters"))
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrAudioNotFound)
	default:
		httperrors.WriteErrorLogged(w, r, err)
	}
}
