package httpapi

import (
	"encoding/json"
	"net/http"

	"ggufmem/internal/estimate"
	"ggufmem/internal/gguf"
	"ggufmem/internal/manager"
	"ggufmem/internal/shard"
	"ggufmem/internal/source"
	"ggufmem/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps domain errors to HTTP status codes: caller mistakes to
// 400, missing models to 404, malformed model files to 422, upstream network
// trouble to 502/504.
func statusForError(err error) int {
	switch {
	case estimate.IsValidation(err):
		return http.StatusBadRequest
	case manager.IsModelNotFound(err), source.IsUnavailable(err):
		return http.StatusNotFound
	case gguf.IsFormatError(err), gguf.IsMissingKey(err), shard.IsInconsistentCount(err):
		return http.StatusUnprocessableEntity
	case source.IsNetworkTimeout(err):
		return http.StatusGatewayTimeout
	case source.IsNetwork(err):
		return http.StatusBadGateway
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
