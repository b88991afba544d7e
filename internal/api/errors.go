package api

import (
	"encoding/json"
	"net/http"

	"github.com/dreamware/snapfeed/internal/logging"
	"github.com/dreamware/snapfeed/internal/social"
)

// ErrorResponse is the JSON envelope for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error kind to its HTTP status.
// Conflict shares 400 with BadRequest: a taken username has always been
// reported to clients as a bad request.
func statusFor(kind social.Kind) int {
	switch kind {
	case social.KindNotFound:
		return http.StatusNotFound
	case social.KindConflict, social.KindBadRequest:
		return http.StatusBadRequest
	case social.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// messageFor renders the client-facing message. Bad requests carry the
// underlying detail; everything else uses a fixed phrase.
func messageFor(kind social.Kind, err error) string {
	switch kind {
	case social.KindNotFound:
		return "Not found"
	case social.KindConflict, social.KindBadRequest:
		return "Bad request: " + err.Error()
	case social.KindUnauthorized:
		return "Unauthorized"
	default:
		return "Internal server error"
	}
}

// writeError classifies err and writes the matching status and envelope
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := social.KindOf(err)
	status := statusFor(kind)

	logger := logging.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("kind", kind.String()).Msg("request rejected")
	}

	writeJSON(w, r, status, ErrorResponse{Error: messageFor(kind, err)})
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := logging.Ctx(r.Context())
		logger.Warn().Err(err).Msg("failed to encode response")
	}
}
