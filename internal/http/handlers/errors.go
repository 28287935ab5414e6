// Package handlers defines the HTTP-layer error codes used across all API
// endpoints. The codes are stable, lowercase snake_case strings that give
// clients a machine-readable taxonomy next to the human-readable message.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeInvalidURL       = "invalid_url"
	ErrCodeInvalidEmail     = "invalid_email"
	ErrCodeUnreachable      = "website_unreachable"
	ErrCodeScanFailed       = "scan_failed"
	ErrCodeReportFailed     = "report_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
