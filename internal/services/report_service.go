// Package services – ReportService
//
// This file implements the ReportService, which runs the expanded-report
// pipeline: validate the request, enforce the per-email quota, obtain a
// basic analysis (reusing a stored scan when one is referenced), expand it
// into the full report, persist it, and dispatch it by email. Persistence
// is mandatory here; email dispatch is best effort and only recorded on
// success.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ai-group/businessscan-backend/internal/domain"
	"github.com/ai-group/businessscan-backend/internal/mail"
	"github.com/ai-group/businessscan-backend/internal/urlutil"
)

// emailRE is deliberately loose: one @, no whitespace, a dot in the domain.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ReportRepo defines the repository contract for expanded reports and the
// per-email quota ledger.
type ReportRepo interface {
	// CreateExpandedReport inserts a new report row.
	CreateExpandedReport(ctx context.Context, db *gorm.DB, scanID, email, url string, body domain.ReportBody) (*domain.ExpandedReport, error)

	// GetExpandedReport fetches a report by ID.
	GetExpandedReport(ctx context.Context, db *gorm.DB, id string) (*domain.ExpandedReport, error)

	// CountReportsByEmail returns the number of reports for a normalized email.
	CountReportsByEmail(ctx context.Context, db *gorm.DB, email string) (int64, error)

	// MarkReportEmailed records a successful dispatch.
	MarkReportEmailed(ctx context.Context, db *gorm.DB, id string, at time.Time) error
}

// Expander turns a basic analysis into the full report. It never fails.
type Expander interface {
	Expand(ctx context.Context, url string, basic domain.Analysis) domain.ReportBody
}

// Mailer delivers the rendered report.
type Mailer interface {
	SendReport(toEmail, url string, report domain.ReportBody) error
}

// ReportResult is the outcome of a completed report request.
type ReportResult struct {
	ReportID  string
	EmailSent bool

	// Post-insert usage for the requester, echoed in the response.
	Current int64
	Max     int
}

// ReportService runs the expanded-report pipeline.
type ReportService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Scans resolves referenced basic scans.
	Scans ScanRepo
	// Repo is the report repository used by this service.
	Repo ReportRepo
	// Prober gates the pipeline on website reachability.
	Prober Prober
	// Analyzer produces a fresh basic analysis when no stored scan applies.
	Analyzer Analyzer
	// Expander produces the full report document.
	Expander Expander
	// Mailer delivers the report.
	Mailer Mailer

	// MaxPerEmail is the lifetime report ceiling per normalized email.
	MaxPerEmail int
}

// Run executes the report pipeline. scanID may be empty; when it references
// a stored scan, that scan's analysis is reused instead of re-analyzing the
// website. The quota gate runs before any outbound traffic and fails open.
// Report persistence is mandatory: if the row cannot be stored the request
// fails with ErrReportPersist, regardless of how the analysis went.
func (s *ReportService) Run(ctx context.Context, scanID, email, rawURL string) (*ReportResult, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "Run",
		trace.WithAttributes(attribute.String("report.scan_id", scanID)),
	)
	defer span.End()

	email = strings.TrimSpace(email)
	rawURL = strings.TrimSpace(rawURL)
	if email == "" || rawURL == "" {
		return nil, ErrMissingFields
	}
	if !emailRE.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	normalizedEmail := strings.ToLower(email)

	url := urlutil.Normalize(rawURL)
	if !urlutil.IsValid(url) {
		return nil, ErrInvalidURL
	}
	span.SetAttributes(attribute.String("report.url", url))

	count, err := s.Repo.CountReportsByEmail(ctx, s.DB, normalizedEmail)
	if err != nil {
		log.Warn().Err(err).Msg("report quota check failed, allowing request")
	} else if count >= int64(s.MaxPerEmail) {
		return nil, &QuotaExceededError{LimitType: "fullscan", Max: s.MaxPerEmail, Current: count}
	}

	if probe := s.Prober.Probe(ctx, url); !probe.Reachable {
		return nil, &UnreachableError{Reason: probe.Reason}
	}

	basic := s.basicAnalysis(ctx, scanID, url)
	body := s.Expander.Expand(ctx, url, basic)

	rec, err := s.Repo.CreateExpandedReport(ctx, s.DB, scanID, normalizedEmail, url, body)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("expanded report persistence failed")
		return nil, ErrReportPersist
	}

	result := &ReportResult{ReportID: rec.ID, Max: s.MaxPerEmail}
	if err := s.Mailer.SendReport(normalizedEmail, url, body); err != nil {
		if errors.Is(err, mail.ErrDisabled) {
			log.Info().Str("report_id", rec.ID).Msg("report email skipped, smtp disabled")
		} else {
			log.Warn().Err(err).Str("report_id", rec.ID).Msg("report email dispatch failed")
		}
	} else {
		result.EmailSent = true
		if err := s.Repo.MarkReportEmailed(ctx, s.DB, rec.ID, time.Now().UTC()); err != nil {
			log.Warn().Err(err).Str("report_id", rec.ID).Msg("could not record email dispatch")
		}
	}

	result.Current = count + 1
	if after, err := s.Repo.CountReportsByEmail(ctx, s.DB, normalizedEmail); err == nil {
		result.Current = after
	}
	return result, nil
}

// basicAnalysis reuses the stored analysis when scanID resolves, and falls
// back to a fresh analysis otherwise.
func (s *ReportService) basicAnalysis(ctx context.Context, scanID, url string) domain.Analysis {
	if scanID != "" {
		scan, err := s.Scans.GetScan(ctx, s.DB, scanID)
		if err == nil {
			return domain.Analysis{
				CompanyDescription: scan.CompanyDescription,
				Opportunities:      scan.Opportunities,
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Str("scan_id", scanID).Msg("stored scan lookup failed, re-analyzing")
		}
	}
	return s.Analyzer.Analyze(ctx, url)
}
