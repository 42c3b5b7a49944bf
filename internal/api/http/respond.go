package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/logger"

	"github.com/gorilla/mux"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain error codes onto HTTP statuses. Anything that is
// not a domain error is a 500 and gets logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		writeJSON(w, statusFor(de.Code), errorResponse{Code: string(de.Code), Message: de.Message})
		return
	}
	logger.ErrorContext(r.Context(), "Internal error", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "internal server error"})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeInvalidState:
		return http.StatusUnprocessableEntity
	case domain.CodeInvalid:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return domain.InvalidError("invalid request body")
	}
	return nil
}

// pathID parses a numeric path variable.
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.InvalidError("invalid %s %q", name, raw)
	}
	return int32(id), nil
}
