package utils

import (
	"encoding/json"
	"net/http"

	"regiobon/apperr"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

type M map[string]interface{}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"success": false, "message": msg})
}

// AppHandle is an httprouter.Handle that may fail with a typed error.
type AppHandle func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error

// Handle is the single place service failures turn into responses: every
// error becomes the uniform {"success":false,"message":...} envelope with
// the apperr status. 5xx causes are logged server-side, never serialized.
func Handle(h AppHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		err := h(w, r, ps)
		if err == nil {
			return
		}
		appErr := apperr.From(err)
		if appErr.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		}
		RespondWithError(w, appErr.Status, appErr.Message)
	}
}
