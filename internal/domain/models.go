// Package domain defines the persistence models for website scans and
// expanded reports, plus the JSON value types that make up an analysis.
// The top-level types are mapped with GORM and form the core data layer of
// the business-scan application; the nested analysis types are stored as
// JSON documents inside their owning row.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// BusinessCase captures the commercial framing of a single AI opportunity.
// ROI, cost, and time-to-value are free-text ranges ("€15.000 - €25.000",
// "2-3 maanden"): no arithmetic is ever performed on them, they pass through
// to storage and rendering as opaque strings.
type BusinessCase struct {
	PotentialImpact    string   `json:"potentialImpact"`
	EstimatedROI       string   `json:"estimatedROI"`
	ImplementationCost string   `json:"implementationCost"`
	TimeToValue        string   `json:"timeToValue"`
	Benefits           []string `json:"benefits"`
	Rationale          string   `json:"rationale,omitempty"`
	KeyMetrics         []string `json:"keyMetrics,omitempty"`
}

// Opportunity is one AI opportunity in a basic analysis. ID is the 1-based
// position within the analysis (1..3).
type Opportunity struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	BusinessCase BusinessCase `json:"businessCase"`
}

// Analysis is the result of the basic (first-pass) website analysis:
// a company description plus exactly three opportunities. Both the success
// and the fallback paths of the analyzer uphold the length-3 invariant.
type Analysis struct {
	CompanyDescription string        `json:"companyDescription"`
	Opportunities      []Opportunity `json:"aiOpportunities"`
}

// Phase is one stage of an implementation plan.
type Phase struct {
	Title      string   `json:"title"`
	Duration   string   `json:"duration"`
	Activities []string `json:"activities"`
}

// ImplementationPlan is the fixed three-phase rollout attached to each
// detailed opportunity.
type ImplementationPlan struct {
	Phase1 Phase `json:"phase1"`
	Phase2 Phase `json:"phase2"`
	Phase3 Phase `json:"phase3"`
}

// YearProjection holds the first-year financial picture for an opportunity.
// All amounts are free-text ranges, same discipline as BusinessCase.
type YearProjection struct {
	Investment              string `json:"investment"`
	ExpectedSavings         string `json:"expectedSavings"`
	ExpectedRevenueIncrease string `json:"expectedRevenueIncrease"`
	TotalValue              string `json:"totalValue"`
	ROI                     string `json:"roi"`
	BreakEvenPoint          string `json:"breakEvenPoint"`
	Summary                 string `json:"summary"`
}

// FinancialProjection wraps the year-1 projection. Earlier revisions of the
// report carried three years; the current format deliberately only projects
// year 1.
type FinancialProjection struct {
	Year1 YearProjection `json:"year1"`
}

// RiskAnalysis lists the technical and business risks of an opportunity and
// their mitigations.
type RiskAnalysis struct {
	TechnicalRisks []string `json:"technicalRisks"`
	BusinessRisks  []string `json:"businessRisks"`
	Mitigations    []string `json:"mitigations"`
}

// Approach describes how the consultancy would deliver an opportunity.
type Approach struct {
	WhatWeDo    string `json:"whatWeDo"`
	HowWeDoIt   string `json:"howWeDoIt"`
	WhyChooseUs string `json:"whyChooseUs"`
}

// DetailedBusinessCase extends BusinessCase with a financial projection and
// a risk analysis. The embedded fields flatten into the same JSON object.
type DetailedBusinessCase struct {
	BusinessCase
	FinancialProjection FinancialProjection `json:"financialProjection"`
	RiskAnalysis        RiskAnalysis        `json:"riskAnalysis"`
}

// DetailedOpportunity is the expanded-report version of an Opportunity:
// the basic fields plus an implementation plan, a detailed business case,
// delivery requirements, and success metrics.
type DetailedOpportunity struct {
	ID                    int                  `json:"id"`
	Title                 string               `json:"title"`
	Description           string               `json:"description"`
	BusinessCase          BusinessCase         `json:"businessCase"`
	ImplementationPlan    ImplementationPlan   `json:"implementationPlan"`
	DetailedBusinessCase  DetailedBusinessCase `json:"detailedBusinessCase"`
	TechnicalRequirements []string             `json:"technicalRequirements"`
	SuccessMetrics        []string             `json:"successMetrics"`
	Approach              Approach             `json:"approach"`
}

// ReportBody is the full expanded-report document that gets persisted and
// emailed.
type ReportBody struct {
	ExecutiveSummary      string                `json:"executiveSummary"`
	DetailedOpportunities []DetailedOpportunity `json:"detailedOpportunities"`
	OverallRecommendation string                `json:"overallRecommendation"`
	NextSteps             []string              `json:"nextSteps"`
}

// Scan is one persisted basic analysis. Rows are immutable after creation
// and never deleted by the application (retention is an external policy).
//
// Fields:
//   - ID: opaque generated identifier ("scan_<uuid>"), primary key.
//   - URL: the normalized (scheme-qualified) URL, never the raw input.
//   - CompanyDescription / Opportunities: analyzer output; Opportunities is
//     stored as a JSON document.
//   - IPAddress: identity key for the per-IP quota; taken verbatim from the
//     first proxy header present. May be empty when no IP could be resolved.
//   - CreatedAt: insert timestamp.
type Scan struct {
	ID                 string        `json:"scanId"             gorm:"type:varchar(64);primaryKey"`
	URL                string        `json:"url"                gorm:"type:varchar(2048);not null"`
	CompanyDescription string        `json:"companyDescription" gorm:"type:text;not null"`
	Opportunities      []Opportunity `json:"aiOpportunities"    gorm:"type:text;serializer:json"`
	IPAddress          string        `json:"-"                  gorm:"type:varchar(64);index:idx_scans_ip"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// TableName returns the database table name for Scan.
func (Scan) TableName() string { return "scans" }

// ExpandedReport is one persisted expanded-report request. The row is
// created before email dispatch and mutated exactly once afterwards to
// record the dispatch outcome (EmailSent / EmailSentAt).
//
// Fields:
//   - ID: opaque generated identifier ("report_<uuid>"), primary key.
//   - ScanID: optional link to the basic scan the report was based on.
//   - Email: normalized (lower-cased, trimmed) requester address; identity
//     key for the per-email quota.
//   - URL: normalized website URL.
//   - Report: the full report document, stored as JSON.
//   - EmailSent / EmailSentAt: dispatch outcome; EmailSent stays false when
//     delivery failed, the record persists regardless.
type ExpandedReport struct {
	ID          string     `json:"reportId"          gorm:"type:varchar(64);primaryKey"`
	ScanID      string     `json:"scanId,omitempty"  gorm:"type:varchar(64);index"`
	Email       string     `json:"email"             gorm:"type:varchar(255);not null;index:idx_reports_email"`
	URL         string     `json:"url"               gorm:"type:varchar(2048);not null"`
	Report      ReportBody `json:"report"            gorm:"type:text;serializer:json"`
	EmailSent   bool       `json:"emailSent"         gorm:"not null;default:false"`
	EmailSentAt *time.Time `json:"emailSentAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TableName returns the database table name for ExpandedReport.
func (ExpandedReport) TableName() string { return "expanded_reports" }

// NewScanID generates an opaque scan identifier.
func NewScanID() string { return "scan_" + uuid.NewString() }

// NewReportID generates an opaque expanded-report identifier.
func NewReportID() string { return "report_" + uuid.NewString() }
