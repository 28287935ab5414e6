// Scan HTTP handlers.
//
// This file exposes the basic-scan endpoints:
//   - POST /scans        (run a scan for a submitted URL)
//   - GET  /scans/limit  (quota usage for the caller's IP)
//   - GET  /scans/:id    (retrieve a stored scan)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results and sentinel errors into HTTP responses.
// User-facing messages are Dutch, matching the product surface.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ai-group/businessscan-backend/internal/domain"
	"github.com/ai-group/businessscan-backend/internal/http/middleware"
	"github.com/ai-group/businessscan-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ScanService defines the basic-scan operations consumed by HTTP handlers.
// Implementations must be safe for concurrent use and honor the provided
// context.
type ScanService interface {
	// Run executes the scan pipeline for rawURL on behalf of ipAddress.
	Run(ctx context.Context, rawURL, ipAddress string) (*services.ScanResult, error)
	// Get fetches a stored scan by ID.
	Get(ctx context.Context, id string) (*domain.Scan, error)
}

// ReportService defines the expanded-report operations consumed by HTTP
// handlers.
type ReportService interface {
	// Run executes the report pipeline. scanID may be empty.
	Run(ctx context.Context, scanID, email, rawURL string) (*services.ReportResult, error)
}

// QuotaService reports quota usage for the limit endpoints. It never
// errors; a broken ledger reads as zero usage.
type QuotaService interface {
	ScanUsage(ctx context.Context, ipAddress string) services.Usage
	ReportUsage(ctx context.Context, email string) services.Usage
}

//
// Handler wiring
//

// Options carries handler-level presentation settings.
type Options struct {
	// ContactEmail is the remediation address shown in quota rejections.
	ContactEmail string
	// ExposeErrors echoes internal error details in 500 responses.
	// Keep false in production.
	ExposeErrors bool
}

// Handlers groups the HTTP endpoints for scans and expanded reports.
type Handlers struct {
	scanSvc   ScanService
	reportSvc ReportService
	quotaSvc  QuotaService
	opts      Options
}

// New constructs a Handlers instance bound to the given services.
func New(scanSvc ScanService, reportSvc ReportService, quotaSvc QuotaService, opts Options) *Handlers {
	return &Handlers{scanSvc: scanSvc, reportSvc: reportSvc, quotaSvc: quotaSvc, opts: opts}
}

//
// DTOs
//

// ScanRequest is the JSON payload for running a scan.
type ScanRequest struct {
	URL string `json:"url"`
}

// ScanResponse is the result of a completed scan.
type ScanResponse struct {
	ScanID             string               `json:"scanId"`
	URL                string               `json:"url"`
	CompanyDescription string               `json:"companyDescription"`
	Opportunities      []domain.Opportunity `json:"aiOpportunities"`
	CreatedAt          string               `json:"createdAt"`
}

// LimitResponse reports quota usage for an identity.
type LimitResponse struct {
	CurrentCount int64  `json:"currentCount"`
	MaxLimit     int    `json:"maxLimit"`
	Remaining    int64  `json:"remaining"`
	LimitReached bool   `json:"limitReached"`
	LimitType    string `json:"limitType"`
}

//
// Helpers
//

// quotaMessage builds the Dutch remediation line for a quota rejection.
func (h *Handlers) quotaMessage(limitType string, max int) string {
	kind := "gratis scans"
	if limitType == "fullscan" {
		kind = "gratis uitgebreide scans"
	}
	return fmt.Sprintf(
		"Je hebt je limiet van %d %s bereikt. Wil je meer gratis credits? Stuur een email naar %s met je verzoek.",
		max, kind, h.opts.ContactEmail)
}

// internalMessage selects the 500 message: the real error in development,
// a generic Dutch line otherwise.
func (h *Handlers) internalMessage(err error, generic string) string {
	if h.opts.ExposeErrors && err != nil {
		return err.Error()
	}
	return generic
}

//
// Handlers
//

// CreateScan runs the scan pipeline for the submitted URL and returns the
// analysis. Quota rejections come back as a structured 429; an unreachable
// website is the caller's problem and maps to 400.
func (h *Handlers) CreateScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ObserveScan("invalid_input")
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.scanSvc.Run(c.Request.Context(), req.URL, middleware.ClientIP(c))
	if err != nil {
		h.failScan(c, err)
		return
	}

	middleware.ObserveScan("ok")
	ok(c, http.StatusOK, ScanResponse{
		ScanID:             res.ScanID,
		URL:                res.URL,
		CompanyDescription: res.Analysis.CompanyDescription,
		Opportunities:      res.Analysis.Opportunities,
		CreatedAt:          res.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// failScan maps scan pipeline errors to HTTP responses.
func (h *Handlers) failScan(c *gin.Context, err error) {
	var qe *services.QuotaExceededError
	var ue *services.UnreachableError
	switch {
	case errors.Is(err, services.ErrEmptyURL):
		middleware.ObserveScan("invalid_input")
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "URL is verplicht")
	case errors.Is(err, services.ErrInvalidURL):
		middleware.ObserveScan("invalid_input")
		fail(c, http.StatusBadRequest, ErrCodeInvalidURL, "Ongeldige URL")
	case errors.As(err, &qe):
		middleware.ObserveScan("quota_exceeded")
		failQuota(c, qe.LimitType, qe.Max, qe.Current, h.quotaMessage(qe.LimitType, qe.Max))
	case errors.As(err, &ue):
		middleware.ObserveScan("unreachable")
		fail(c, http.StatusBadRequest, ErrCodeUnreachable, ue.Reason)
	default:
		middleware.ObserveScan("error")
		fail(c, http.StatusInternalServerError, ErrCodeScanFailed,
			h.internalMessage(err, "Er is een fout opgetreden bij het scannen"))
	}
}

// GetScanLimit reports quota usage for the caller's IP. It never errors
// outward; ledger failures read as zero usage.
func (h *Handlers) GetScanLimit(c *gin.Context) {
	u := h.quotaSvc.ScanUsage(c.Request.Context(), middleware.ClientIP(c))
	ok(c, http.StatusOK, LimitResponse{
		CurrentCount: u.Current,
		MaxLimit:     u.Max,
		Remaining:    u.Remaining,
		LimitReached: u.LimitReached,
		LimitType:    "scan",
	})
}

// GetScan retrieves a stored scan by its ID.
func (h *Handlers) GetScan(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	scan, err := h.scanSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrScanNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Scan niet gevonden")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal,
			h.internalMessage(err, "Er is een fout opgetreden"))
		return
	}
	ok(c, http.StatusOK, scan)
}
