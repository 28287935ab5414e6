// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: a structured error envelope with a stable machine-readable
// code, and small helpers that keep success and failure responses uniform.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "invalid_url",
//	  "message": "Ongeldige URL"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ai-group/businessscan-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
// RequestID correlates server logs with client-side errors, Code is a
// stable machine-readable string (see errors.go), and Message is safe to
// show to end users.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// QuotaExceededResponse is the 429 payload for requests past a quota
// ceiling. It carries enough structure for the client to render the exact
// usage and a remediation path.
type QuotaExceededResponse struct {
	RequestID    string `json:"request_id,omitempty"`
	Code         string `json:"code"`
	LimitReached bool   `json:"limitReached"`
	LimitType    string `json:"limitType"`
	MaxLimit     int    `json:"maxLimit"`
	CurrentCount int64  `json:"currentCount"`
	Message      string `json:"message"`
}

// fail aborts the request with a structured error. Server errors (>=500)
// are logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(). The router uses it for the
// NoRoute and NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failQuota aborts the request with the structured 429 quota payload.
func failQuota(c *gin.Context, limitType string, max int, current int64, msg string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, QuotaExceededResponse{
		RequestID:    c.Writer.Header().Get("X-Request-ID"),
		Code:         ErrCodeRateLimited,
		LimitReached: true,
		LimitType:    limitType,
		MaxLimit:     max,
		CurrentCount: current,
		Message:      msg,
	})
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
