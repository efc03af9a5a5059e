package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/anchor/internal/domain"
	logpkg "github.com/kailas-cloud/anchor/internal/logger"
)

// ErrorCode is the machine-readable error class returned to clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest          ErrorCode = "bad_request"
	CodeValidationFailed    ErrorCode = "validation_failed"
	CodeUnauthorized        ErrorCode = "unauthorized"
	CodeAnchorNotFound      ErrorCode = "anchor_not_found"
	CodeObjectNotFound      ErrorCode = "object_not_found"
	CodeFingerprintNotFound ErrorCode = "fingerprint_not_found"
	CodeVectorNotFound      ErrorCode = "vector_not_found"
	CodeMagneticNotFound    ErrorCode = "magnetic_fingerprint_not_found"
	CodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeAnchorNotFound),
		sentinelHandler(domain.ErrObjectNotFound, http.StatusNotFound, CodeObjectNotFound),
		sentinelHandler(domain.ErrFingerprintNotFound, http.StatusNotFound, CodeFingerprintNotFound),
		sentinelHandler(domain.ErrVectorNotFound, http.StatusNotFound, CodeVectorNotFound),
		sentinelHandler(domain.ErrMagneticNotFound, http.StatusNotFound, CodeMagneticNotFound),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Validation errors keep the field detail that follows the sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		marker := domain.ErrInvalidInput.Error() + ": "
		if msg := err.Error(); strings.Contains(msg, marker) {
			return msg[strings.LastIndex(msg, marker)+len(marker):]
		}
		return domain.ErrInvalidInput.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrObjectNotFound,
		domain.ErrFingerprintNotFound,
		domain.ErrVectorNotFound,
		domain.ErrMagneticNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Debug("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
