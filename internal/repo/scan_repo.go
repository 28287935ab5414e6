// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Scan model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a scan is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. Fail-open quota behavior lives in
//     the service layer, not here.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ai-group/businessscan-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateScan inserts a new Scan row with a generated opaque ID and a UTC
// creation timestamp. The caller provides the normalized URL and the
// analysis output; ipAddress may be empty when no client IP was resolved.
//
// On success, it returns the persisted Scan. On failure, it returns a DB error.
func CreateScan(ctx context.Context, db *gorm.DB, url string, analysis domain.Analysis, ipAddress string) (*domain.Scan, error) {
	s := &domain.Scan{
		ID:                 domain.NewScanID(),
		URL:                url,
		CompanyDescription: analysis.CompanyDescription,
		Opportunities:      analysis.Opportunities,
		IPAddress:          ipAddress,
		CreatedAt:          time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetScan fetches a single scan by its ID. If the record does not exist,
// it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetScan(ctx context.Context, db *gorm.DB, id string) (*domain.Scan, error) {
	var s domain.Scan
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountScansByIP returns the number of scans recorded for ipAddress.
// This is the quota ledger for the basic scan path. On DB error, it
// returns the error; the caller decides whether to fail open.
func CountScansByIP(ctx context.Context, db *gorm.DB, ipAddress string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Scan{}).
		Where("ip_address = ?", ipAddress).
		Count(&total).Error
	return total, err
}
