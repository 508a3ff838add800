package helpers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	httperrors "github.com/dropDatabas3/audiohub/internal/http/errors"
)

// ListFilter parses ?skip=&limit=. Missing values take the defaults; out of
// range values are clamped.
func ListFilter(r *http.Request) (repository.ListFilter, error) {
	var f repository.ListFilter
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("skip")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, httperrors.ErrInvalidParameter.WithDetail("skip must be a non-negative integer")
		}
		f.Skip = n
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, httperrors.ErrInvalidParameter.WithDetail("limit must be a positive integer")
		}
		f.Limit = n
	}
	return f.Normalize(), nil
}

// PathID parses a positive integer chi URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, httperrors.ErrInvalidParameter.WithDetail(name + " must be a positive integer")
	}
	return id, nil
}
