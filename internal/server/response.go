package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/conftree/conftree/internal/document"
	"github.com/conftree/conftree/internal/schema"
	"github.com/conftree/conftree/internal/session"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeParseError       = "PARSE_ERROR"
	ErrCodeCoercionFailed   = "COERCION_FAILED"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeDocumentGone     = "DOCUMENT_GONE"
	ErrCodeIOError          = "IO_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeSuccess writes a success response.
func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeDomainError maps session and document errors to HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	var parseErr *document.ParseError
	var coerceErr *schema.CoercionError
	var validErr *schema.ValidationError
	var ioErr *session.IOError

	switch {
	case errors.As(err, &parseErr):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeParseError, parseErr.Error())
	case errors.As(err, &coerceErr):
		writeError(w, http.StatusBadRequest, ErrCodeCoercionFailed, coerceErr.Error())
	case errors.As(err, &validErr):
		writeError(w, http.StatusBadRequest, ErrCodeValidationFailed, validErr.Error())
	case errors.Is(err, session.ErrPathResolution):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, session.ErrInvalidated):
		writeError(w, http.StatusGone, ErrCodeDocumentGone, err.Error())
	case errors.Is(err, document.ErrNotArray), errors.Is(err, document.ErrEmptyArray):
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.As(err, &ioErr):
		writeError(w, http.StatusInternalServerError, ErrCodeIOError, ioErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}
