package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

// errorResponse estructura interna para la serialización JSON.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Los errores que no son *AppError se convierten en un 500 genérico y los 401
// llevan el header WWW-Authenticate.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	if appErr.HTTPStatus == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)

	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

// WriteErrorLogged es WriteError más un log del lado servidor para los 5xx,
// con la causa completa.
func WriteErrorLogged(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)
	if appErr.HTTPStatus >= 500 {
		logger.From(r.Context()).Error("request failed",
			logger.Status(appErr.HTTPStatus),
			logger.String("code", appErr.Code),
			logger.Err(err),
		)
	}
	WriteError(w, appErr)
}
