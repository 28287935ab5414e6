// Package services implements the business logic for website scans and
// expanded reports: input validation, quota gating, the analysis pipeline,
// persistence, and report delivery. This file centralizes service-level
// error values so they can be consistently returned by service methods and
// mapped to HTTP results at the handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyURL is returned when a scan request carries no URL.
	ErrEmptyURL = errors.New("url is required")

	// ErrInvalidURL is returned when the submitted URL does not survive
	// normalization and validation.
	ErrInvalidURL = errors.New("invalid url")

	// ErrMissingFields is returned when a report request lacks the email
	// address or the URL.
	ErrMissingFields = errors.New("email and url are required")

	// ErrInvalidEmail is returned when the requester's email address does
	// not look like an address at all.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrScanNotFound indicates that the requested scan does not exist.
	ErrScanNotFound = errors.New("scan not found")

	// ErrQuotaExceeded is the errors.Is target for *QuotaExceededError.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrUnreachable is the errors.Is target for *UnreachableError.
	ErrUnreachable = errors.New("website unreachable")

	// ErrReportPersist is returned when the expanded report could not be
	// stored. Unlike scan persistence this is fatal to the request.
	ErrReportPersist = errors.New("could not persist expanded report")
)

// QuotaExceededError carries the numbers the 429 payload needs. It matches
// ErrQuotaExceeded under errors.Is.
type QuotaExceededError struct {
	LimitType string // "scan" or "fullscan"
	Max       int
	Current   int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %d of %d used", e.LimitType, e.Current, e.Max)
}

// Is lets errors.Is(err, ErrQuotaExceeded) match.
func (e *QuotaExceededError) Is(target error) bool { return target == ErrQuotaExceeded }

// UnreachableError carries the user-facing (Dutch) reason the reachability
// probe produced. It matches ErrUnreachable under errors.Is.
type UnreachableError struct {
	Reason string
}

func (e *UnreachableError) Error() string { return e.Reason }

// Is lets errors.Is(err, ErrUnreachable) match.
func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }
