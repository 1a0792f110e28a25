package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/uft-palmas/achados/internal/apperr"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Type   apperr.Kind       `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	kind := apperr.KindInternal
	switch status {
	case http.StatusBadRequest:
		kind = apperr.KindValidation
	case http.StatusUnauthorized:
		kind = apperr.KindUnauthenticated
	case http.StatusForbidden:
		kind = apperr.KindAuthorization
	case http.StatusNotFound:
		kind = apperr.KindNotFound
	}
	jsonResponse(w, status, errorBody{Error: message, Type: kind})
}

// writeError translates err into an error response. Errors without a kind
// are logged and reported as internal.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := apperr.As(err); ok {
		jsonResponse(w, e.Status(), errorBody{Error: e.Message, Type: e.Kind, Fields: e.Fields})
		return
	}
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	jsonError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {name} path segment as a positive id.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}
