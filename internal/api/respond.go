package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/siteconf/internal/settings"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error      string               `json:"error"`
	Violations []settings.Violation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes.  Anything unrecognised,
// storage failures included, is a 500 whose detail stays in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *settings.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Violations: ve.Violations})
	case errors.Is(err, settings.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		zap.S().Errorw("request failed",
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
	}
}
