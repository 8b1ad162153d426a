// Package middleware provides the HTTP middleware chain for the API:
// request ids, request-scoped logging, metrics, rate limiting, body and
// time limits, security headers and bearer-token authentication.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/qkart/internal/domain"
)

// contextKey is the type for context keys owned by this package.
type contextKey string

// Middleware writes its own error responses in the same JSON shape as
// handler.ErrorResponse; handler is not imported to keep the dependency
// one-way.

// respondWithError logs err and writes it as a JSON error.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	respondWithStatus(w, r, errorCodeToHTTPStatus(domain.ErrorCode(err)), err)
}

// respondWithStatus writes err with an explicit status code.
func respondWithStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := domain.ErrorCode(err)

	attrs := []any{
		"error", err.Error(),
		"code", code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}
	if reqID := GetRequestID(r.Context()); reqID != "" {
		attrs = append(attrs, "request_id", reqID)
	}

	logger := GetLogger(r.Context())
	if status >= 500 {
		logger.Error("middleware error", attrs...)
	} else {
		logger.Info("middleware error", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": domain.ErrorMessage(err),
		},
	})
}

// respondUnauthorized is a convenience wrapper for 401 errors.
func respondUnauthorized(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "Please authenticate"))
}

// respondTooManyRequests is a convenience wrapper for 429 errors.
func respondTooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.ERATELIMIT, "", "Too many requests, please try again later"))
}

// respondInternalError returns a generic 500 response.
func respondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	respondWithError(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

// errorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}
