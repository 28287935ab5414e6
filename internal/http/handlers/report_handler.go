// Expanded-report HTTP handlers.
//
// This file exposes the report endpoints:
//   - POST /reports        (generate, persist, and email the expanded report)
//   - GET  /reports/limit  (quota usage for ?email=)
//
// Unlike the basic scan, report persistence is mandatory: a report that
// could not be stored is a failed request, so a storage error maps to 500.
// Email dispatch stays best effort and only shows up in the emailSent flag.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ai-group/businessscan-backend/internal/http/middleware"
	"github.com/ai-group/businessscan-backend/internal/services"
)

// ReportRequest is the JSON payload for requesting an expanded report.
// ScanID optionally links the report to a stored scan, whose analysis is
// then reused instead of re-analyzing the website.
type ReportRequest struct {
	ScanID string `json:"scanId"`
	Email  string `json:"email"`
	URL    string `json:"url"`
}

// ReportUsage echoes the requester's post-insert quota position.
type ReportUsage struct {
	Current   int64  `json:"current"`
	Max       int    `json:"max"`
	LimitType string `json:"limitType"`
}

// ReportResponse is the result of a completed report request.
type ReportResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	ReportID  string      `json:"reportId"`
	EmailSent bool        `json:"emailSent"`
	ScanCount ReportUsage `json:"scanCount"`
}

// CreateReport runs the expanded-report pipeline and reports the outcome,
// including whether the email copy went out and the requester's remaining
// quota headroom.
func (h *Handlers) CreateReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ObserveReport("invalid_input", false)
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.reportSvc.Run(c.Request.Context(), req.ScanID, req.Email, req.URL)
	if err != nil {
		h.failReport(c, err)
		return
	}

	msg := "Uitgebreide quickscan is gegenereerd en verzonden"
	if !res.EmailSent {
		msg = "Uitgebreide quickscan is gegenereerd"
	}
	middleware.ObserveReport("ok", res.EmailSent)
	ok(c, http.StatusOK, ReportResponse{
		Success:   true,
		Message:   msg,
		ReportID:  res.ReportID,
		EmailSent: res.EmailSent,
		ScanCount: ReportUsage{Current: res.Current, Max: res.Max, LimitType: "fullscan"},
	})
}

// failReport maps report pipeline errors to HTTP responses.
func (h *Handlers) failReport(c *gin.Context, err error) {
	var qe *services.QuotaExceededError
	var ue *services.UnreachableError
	switch {
	case errors.Is(err, services.ErrMissingFields):
		middleware.ObserveReport("invalid_input", false)
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Email en URL zijn verplicht")
	case errors.Is(err, services.ErrInvalidEmail):
		middleware.ObserveReport("invalid_input", false)
		fail(c, http.StatusBadRequest, ErrCodeInvalidEmail, "Ongeldig emailadres")
	case errors.Is(err, services.ErrInvalidURL):
		middleware.ObserveReport("invalid_input", false)
		fail(c, http.StatusBadRequest, ErrCodeInvalidURL, "Ongeldige URL")
	case errors.As(err, &qe):
		middleware.ObserveReport("quota_exceeded", false)
		failQuota(c, qe.LimitType, qe.Max, qe.Current, h.quotaMessage(qe.LimitType, qe.Max))
	case errors.As(err, &ue):
		middleware.ObserveReport("unreachable", false)
		fail(c, http.StatusBadRequest, ErrCodeUnreachable, ue.Reason)
	case errors.Is(err, services.ErrReportPersist):
		middleware.ObserveReport("error", false)
		fail(c, http.StatusInternalServerError, ErrCodeReportFailed,
			h.internalMessage(err, "Het rapport kon niet worden opgeslagen"))
	default:
		middleware.ObserveReport("error", false)
		fail(c, http.StatusInternalServerError, ErrCodeReportFailed,
			h.internalMessage(err, "Er is een fout opgetreden bij het genereren van het rapport"))
	}
}

// GetReportLimit reports quota usage for the email given in ?email=. An
// absent email reads as zero usage, same as a broken ledger.
func (h *Handlers) GetReportLimit(c *gin.Context) {
	u := h.quotaSvc.ReportUsage(c.Request.Context(), c.Query("email"))
	ok(c, http.StatusOK, LimitResponse{
		CurrentCount: u.Current,
		MaxLimit:     u.Max,
		Remaining:    u.Remaining,
		LimitReached: u.LimitReached,
		LimitType:    "fullscan",
	})
}
