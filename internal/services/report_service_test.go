package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ai-group/businessscan-backend/internal/domain"
	"github.com/ai-group/businessscan-backend/internal/mail"
	"github.com/ai-group/businessscan-backend/internal/webfetch"
)

type fakeReportRepo struct {
	countTotal     int64
	countErr       error
	countCalls     int
	lastCountEmail string

	createErr     error
	createCalls   int
	lastScanID    string
	lastEmail     string
	lastURL       string
	lastBody      domain.ReportBody
	createdReport *domain.ExpandedReport

	markErr    error
	markCalls  int
	lastMarkID string
}

func (r *fakeReportRepo) CreateExpandedReport(ctx context.Context, db *gorm.DB, scanID, email, url string, body domain.ReportBody) (*domain.ExpandedReport, error) {
	r.createCalls++
	r.lastScanID = scanID
	r.lastEmail = email
	r.lastURL = url
	r.lastBody = body
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.createdReport = &domain.ExpandedReport{
		ID: "report_fixed", ScanID: scanID, Email: email, URL: url, Report: body,
		CreatedAt: time.Now().UTC(),
	}
	return r.createdReport, nil
}

func (r *fakeReportRepo) GetExpandedReport(ctx context.Context, db *gorm.DB, id string) (*domain.ExpandedReport, error) {
	if r.createdReport != nil && r.createdReport.ID == id {
		return r.createdReport, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReportRepo) CountReportsByEmail(ctx context.Context, db *gorm.DB, email string) (int64, error) {
	r.countCalls++
	r.lastCountEmail = email
	if r.countErr != nil {
		return 0, r.countErr
	}
	// Second read happens after the insert.
	if r.countCalls > 1 {
		return r.countTotal + 1, nil
	}
	return r.countTotal, nil
}

func (r *fakeReportRepo) MarkReportEmailed(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	r.markCalls++
	r.lastMarkID = id
	return r.markErr
}

type fakeExpander struct {
	body      domain.ReportBody
	calls     int
	lastURL   string
	lastBasic domain.Analysis
}

func (e *fakeExpander) Expand(ctx context.Context, url string, basic domain.Analysis) domain.ReportBody {
	e.calls++
	e.lastURL = url
	e.lastBasic = basic
	return e.body
}

type fakeMailer struct {
	err        error
	calls      int
	lastTo     string
	lastURL    string
	lastReport domain.ReportBody
}

func (m *fakeMailer) SendReport(toEmail, url string, report domain.ReportBody) error {
	m.calls++
	m.lastTo = toEmail
	m.lastURL = url
	m.lastReport = report
	return m.err
}

type reportFixtures struct {
	scans    *fakeScanRepo
	reports  *fakeReportRepo
	prober   *fakeProber
	analyzer *fakeAnalyzer
	expander *fakeExpander
	mailer   *fakeMailer
	svc      *ReportService
}

func newReportFixtures() *reportFixtures {
	f := &reportFixtures{
		scans:    &fakeScanRepo{getErr: gorm.ErrRecordNotFound},
		reports:  &fakeReportRepo{},
		prober:   &fakeProber{result: webfetch.ProbeResult{Reachable: true}},
		analyzer: &fakeAnalyzer{analysis: testAnalysis()},
		expander: &fakeExpander{body: domain.ReportBody{ExecutiveSummary: "Samenvatting."}},
		mailer:   &fakeMailer{},
	}
	f.svc = &ReportService{
		Scans: f.scans, Repo: f.reports,
		Prober: f.prober, Analyzer: f.analyzer, Expander: f.expander, Mailer: f.mailer,
		MaxPerEmail: 3,
	}
	return f
}

func TestReportRun_Success(t *testing.T) {
	f := newReportFixtures()

	res, err := f.svc.Run(context.Background(), "", "User@Example.COM  ", "example.com")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ReportID != "report_fixed" {
		t.Errorf("ReportID = %q", res.ReportID)
	}
	if !res.EmailSent {
		t.Errorf("EmailSent = false; mailer succeeded")
	}
	if res.Current != 1 || res.Max != 3 {
		t.Errorf("usage = %d/%d; want 1/3", res.Current, res.Max)
	}
	if f.reports.lastCountEmail != "user@example.com" || f.reports.lastEmail != "user@example.com" {
		t.Errorf("email not normalized: count=%q stored=%q", f.reports.lastCountEmail, f.reports.lastEmail)
	}
	if f.reports.lastURL != "https://example.com" {
		t.Errorf("stored url = %q; want normalized", f.reports.lastURL)
	}
	if f.mailer.lastTo != "user@example.com" {
		t.Errorf("mail recipient = %q", f.mailer.lastTo)
	}
	if f.reports.markCalls != 1 || f.reports.lastMarkID != "report_fixed" {
		t.Errorf("dispatch not recorded: calls=%d id=%q", f.reports.markCalls, f.reports.lastMarkID)
	}
}

func TestReportRun_MissingFields(t *testing.T) {
	f := newReportFixtures()
	if _, err := f.svc.Run(context.Background(), "", "", "https://example.com"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing email err = %v", err)
	}
	if _, err := f.svc.Run(context.Background(), "", "user@example.com", "  "); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing url err = %v", err)
	}
}

func TestReportRun_InvalidEmail(t *testing.T) {
	f := newReportFixtures()
	for _, bad := range []string{"not-an-email", "a@b", "a b@c.nl", "@example.com"} {
		if _, err := f.svc.Run(context.Background(), "", bad, "https://example.com"); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("email %q err = %v; want ErrInvalidEmail", bad, err)
		}
	}
}

func TestReportRun_QuotaGateRunsBeforeAnyOutboundWork(t *testing.T) {
	f := newReportFixtures()
	f.reports.countTotal = 3

	_, err := f.svc.Run(context.Background(), "", "user@example.com", "https://example.com")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v; want ErrQuotaExceeded", err)
	}
	var qe *QuotaExceededError
	if !errors.As(err, &qe) || qe.LimitType != "fullscan" || qe.Max != 3 || qe.Current != 3 {
		t.Errorf("quota error = %v", err)
	}
	if f.prober.calls != 0 || f.analyzer.calls != 0 || f.expander.calls != 0 || f.mailer.calls != 0 {
		t.Errorf("rejected request still did work")
	}
}

func TestReportRun_QuotaCheckFailsOpen(t *testing.T) {
	f := newReportFixtures()
	f.reports.countErr = errors.New("db down")

	// The post-insert recount also fails; the pre-gate estimate is used.
	res, err := f.svc.Run(context.Background(), "", "user@example.com", "https://example.com")
	if err != nil {
		t.Fatalf("quota error must not block the report: %v", err)
	}
	if res.Current != 1 {
		t.Errorf("Current = %d; want pre-gate estimate 1", res.Current)
	}
}

func TestReportRun_UnreachableWebsite(t *testing.T) {
	f := newReportFixtures()
	f.prober.result = webfetch.ProbeResult{Reachable: false, Reason: "De website bestaat niet of is niet bereikbaar"}

	_, err := f.svc.Run(context.Background(), "", "user@example.com", "https://example.com")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("err = %v; want ErrUnreachable", err)
	}
	if f.expander.calls != 0 || f.reports.createCalls != 0 {
		t.Errorf("unreachable site still expanded or persisted")
	}
}

func TestReportRun_ReusesStoredScan(t *testing.T) {
	f := newReportFixtures()
	f.scans.getErr = nil
	f.scans.getScan = &domain.Scan{
		ID:                 "scan_abc",
		URL:                "https://example.com",
		CompanyDescription: "Opgeslagen beschrijving.",
		Opportunities:      testAnalysis().Opportunities,
	}

	if _, err := f.svc.Run(context.Background(), "scan_abc", "user@example.com", "https://example.com"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.analyzer.calls != 0 {
		t.Errorf("stored scan available but website re-analyzed")
	}
	if f.expander.lastBasic.CompanyDescription != "Opgeslagen beschrijving." {
		t.Errorf("expander got %q; want the stored analysis", f.expander.lastBasic.CompanyDescription)
	}
	if f.reports.lastScanID != "scan_abc" {
		t.Errorf("scan link lost: %q", f.reports.lastScanID)
	}
}

func TestReportRun_FreshAnalysisWhenScanMissing(t *testing.T) {
	f := newReportFixtures()

	if _, err := f.svc.Run(context.Background(), "scan_gone", "user@example.com", "https://example.com"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.analyzer.calls != 1 {
		t.Errorf("analyzer calls = %d; want fresh analysis", f.analyzer.calls)
	}
}

func TestReportRun_PersistFailureFailsRequest(t *testing.T) {
	f := newReportFixtures()
	f.reports.createErr = errors.New("disk full")

	_, err := f.svc.Run(context.Background(), "", "user@example.com", "https://example.com")
	if !errors.Is(err, ErrReportPersist) {
		t.Fatalf("err = %v; want ErrReportPersist", err)
	}
	if f.mailer.calls != 0 {
		t.Errorf("report emailed despite failed persistence")
	}
}

func TestReportRun_MailFailureIsBestEffort(t *testing.T) {
	f := newReportFixtures()
	f.mailer.err = errors.New("smtp timeout")

	res, err := f.svc.Run(context.Background(), "", "user@example.com", "https://example.com")
	if err != nil {
		t.Fatalf("mail failure must not fail the request: %v", err)
	}
	if res.EmailSent {
		t.Errorf("EmailSent = true despite dispatch failure")
	}
	if f.reports.markCalls != 0 {
		t.Errorf("dispatch recorded despite failure")
	}
}

func TestReportRun_MailerDisabled(t *testing.T) {
	f := newReportFixtures()
	f.mailer.err = mail.ErrDisabled

	res, err := f.svc.Run(context.Background(), "", "user@example.com", "https://example.com")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.EmailSent || f.reports.markCalls != 0 {
		t.Errorf("disabled mailer must leave the record unsent")
	}
}
