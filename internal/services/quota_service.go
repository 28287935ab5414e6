// Package services – QuotaService
//
// This file implements the QuotaService behind the limit endpoints. It only
// reads the ledgers; enforcement lives in the scan and report pipelines.
// Reads never error outward: the limit endpoints are informational, and a
// broken ledger must not make the frontend believe quota is exhausted.
package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Usage describes how much of a quota an identity has consumed.
type Usage struct {
	Current      int64
	Max          int
	Remaining    int64
	LimitReached bool
}

// QuotaService reports quota usage for the limit endpoints.
type QuotaService struct {
	// DB is the GORM handle used for ledger reads.
	DB *gorm.DB
	// Scans is the scan ledger.
	Scans ScanRepo
	// Reports is the report ledger.
	Reports ReportRepo

	// MaxScansPerIP is the lifetime scan ceiling per client IP.
	MaxScansPerIP int
	// MaxReportsPerEmail is the lifetime report ceiling per normalized email.
	MaxReportsPerEmail int
}

// ScanUsage returns the scan quota usage for ipAddress. On a ledger error
// it reports zero usage.
func (s *QuotaService) ScanUsage(ctx context.Context, ipAddress string) Usage {
	count, err := s.Scans.CountScansByIP(ctx, s.DB, ipAddress)
	if err != nil {
		log.Warn().Err(err).Str("ip", ipAddress).Msg("scan usage read failed, reporting zero")
		count = 0
	}
	return usage(count, s.MaxScansPerIP)
}

// ReportUsage returns the report quota usage for email. The address is
// normalized the same way the report pipeline normalizes it. On a ledger
// error it reports zero usage.
func (s *QuotaService) ReportUsage(ctx context.Context, email string) Usage {
	normalized := strings.ToLower(strings.TrimSpace(email))
	count, err := s.Reports.CountReportsByEmail(ctx, s.DB, normalized)
	if err != nil {
		log.Warn().Err(err).Msg("report usage read failed, reporting zero")
		count = 0
	}
	return usage(count, s.MaxReportsPerEmail)
}

func usage(current int64, max int) Usage {
	remaining := int64(max) - current
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		Current:      current,
		Max:          max,
		Remaining:    remaining,
		LimitReached: current >= int64(max),
	}
}
