// Package repo – expanded report repository.
//
// Functions:
//
//   - CreateExpandedReport(ctx, db, rep) -> *domain.ExpandedReport, error
//     Inserts a new report row with a generated ID and UTC timestamp.
//
//   - GetExpandedReport(ctx, db, id) -> *domain.ExpandedReport, error
//     Fetches a report by ID, or ErrNotFound.
//
//   - CountReportsByEmail(ctx, db, email) -> (int64, error)
//     Quota ledger for the expanded-report path; email must already be
//     normalized (lower-cased, trimmed) by the caller.
//
//   - MarkReportEmailed(ctx, db, id, at) -> error
//     Records a successful dispatch. Called at most once per report.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ai-group/businessscan-backend/internal/domain"
)

// CreateExpandedReport inserts a new ExpandedReport row. The ID and
// CreatedAt are set here; EmailSent starts false and is only flipped by
// MarkReportEmailed after a successful dispatch.
func CreateExpandedReport(ctx context.Context, db *gorm.DB, scanID, email, url string, body domain.ReportBody) (*domain.ExpandedReport, error) {
	r := &domain.ExpandedReport{
		ID:        domain.NewReportID(),
		ScanID:    scanID,
		Email:     email,
		URL:       url,
		Report:    body,
		EmailSent: false,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetExpandedReport fetches a report by its ID, or ErrNotFound.
func GetExpandedReport(ctx context.Context, db *gorm.DB, id string) (*domain.ExpandedReport, error) {
	var r domain.ExpandedReport
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountReportsByEmail returns the number of expanded reports recorded for
// the given normalized email address.
func CountReportsByEmail(ctx context.Context, db *gorm.DB, email string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ExpandedReport{}).
		Where("email = ?", email).
		Count(&total).Error
	return total, err
}

// MarkReportEmailed sets EmailSent and EmailSentAt on a report after a
// successful dispatch. If no rows are affected (report missing), it returns
// ErrNotFound.
func MarkReportEmailed(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.ExpandedReport{}).
		Where("id = ?", id).
		Updates(map[string]any{"email_sent": true, "email_sent_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
