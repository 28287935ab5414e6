// Package services – ScanService
//
// This file implements the ScanService, which runs the basic scan pipeline:
// validate and normalize the submitted URL, enforce the per-IP quota,
// verify the website answers at all, produce the analysis, and persist the
// result. Persistence is best effort here; a storage hiccup must never cost
// the visitor their analysis.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ai-group/businessscan-backend/internal/domain"
	"github.com/ai-group/businessscan-backend/internal/urlutil"
	"github.com/ai-group/businessscan-backend/internal/webfetch"
)

// ScanRepo defines the repository contract required by the scan side of the
// application. Implementations are responsible for persistence of scans and
// the per-IP quota ledger.
type ScanRepo interface {
	// CreateScan inserts a new scan row with the analysis output.
	CreateScan(ctx context.Context, db *gorm.DB, url string, analysis domain.Analysis, ipAddress string) (*domain.Scan, error)

	// GetScan fetches a scan by ID.
	GetScan(ctx context.Context, db *gorm.DB, id string) (*domain.Scan, error)

	// CountScansByIP returns the number of scans recorded for an IP.
	CountScansByIP(ctx context.Context, db *gorm.DB, ipAddress string) (int64, error)
}

// Prober checks whether a website answers before the analysis runs.
type Prober interface {
	Probe(ctx context.Context, url string) webfetch.ProbeResult
}

// Analyzer produces the basic analysis for a website. It never fails.
type Analyzer interface {
	Analyze(ctx context.Context, url string) domain.Analysis
}

// ScanResult is the outcome of a completed basic scan.
type ScanResult struct {
	ScanID    string
	URL       string
	Analysis  domain.Analysis
	CreatedAt time.Time
}

// ScanService runs and retrieves basic website scans.
type ScanService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the scan repository used by this service.
	Repo ScanRepo
	// Prober gates the pipeline on website reachability.
	Prober Prober
	// Analyzer produces the analysis.
	Analyzer Analyzer

	// MaxPerIP is the lifetime scan ceiling per client IP.
	MaxPerIP int
}

// Run executes the scan pipeline for rawURL on behalf of the client at
// ipAddress. The quota gate runs before any outbound traffic: a visitor
// over their limit costs neither a probe nor a completion call. The quota
// check fails open; if the ledger cannot be read the scan proceeds.
func (s *ScanService) Run(ctx context.Context, rawURL, ipAddress string) (*ScanResult, error) {
	tr := otel.Tracer("services/ScanService")
	ctx, span := tr.Start(ctx, "Run",
		trace.WithAttributes(attribute.String("scan.ip", ipAddress)),
	)
	defer span.End()

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrEmptyURL
	}
	url := urlutil.Normalize(rawURL)
	if !urlutil.IsValid(url) {
		return nil, ErrInvalidURL
	}
	span.SetAttributes(attribute.String("scan.url", url))

	count, err := s.Repo.CountScansByIP(ctx, s.DB, ipAddress)
	if err != nil {
		log.Warn().Err(err).Str("ip", ipAddress).Msg("scan quota check failed, allowing request")
	} else if count >= int64(s.MaxPerIP) {
		return nil, &QuotaExceededError{LimitType: "scan", Max: s.MaxPerIP, Current: count}
	}

	if probe := s.Prober.Probe(ctx, url); !probe.Reachable {
		return nil, &UnreachableError{Reason: probe.Reason}
	}

	analysis := s.Analyzer.Analyze(ctx, url)

	result := &ScanResult{URL: url, Analysis: analysis}
	scan, err := s.Repo.CreateScan(ctx, s.DB, url, analysis, ipAddress)
	if err != nil {
		// The visitor still gets their analysis; only the ledger entry and
		// later retrieval by ID are lost.
		log.Warn().Err(err).Str("url", url).Msg("scan persistence failed, serving unsaved result")
		result.ScanID = domain.NewScanID()
		result.CreatedAt = time.Now().UTC()
		return result, nil
	}
	result.ScanID = scan.ID
	result.CreatedAt = scan.CreatedAt
	return result, nil
}

// Get fetches a stored scan by its ID.
func (s *ScanService) Get(ctx context.Context, id string) (*domain.Scan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrScanNotFound
	}
	scan, err := s.Repo.GetScan(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, err
	}
	return scan, nil
}
