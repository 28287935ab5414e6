package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ai-group/businessscan-backend/internal/config"
	"github.com/ai-group/businessscan-backend/internal/domain"
	"github.com/ai-group/businessscan-backend/internal/repo"
	"github.com/ai-group/businessscan-backend/internal/webfetch"
)

// ---------- test DB ----------

func newRouterDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// ---------- fake collaborators ----------

type fakeProber struct {
	result webfetch.ProbeResult
	calls  int
}

func (p *fakeProber) Probe(ctx context.Context, url string) webfetch.ProbeResult {
	p.calls++
	return p.result
}

type fakeAnalyzer struct {
	analysis domain.Analysis
	calls    int
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, url string) domain.Analysis {
	a.calls++
	return a.analysis
}

type fakeExpander struct {
	body  domain.ReportBody
	calls int
}

func (e *fakeExpander) Expand(ctx context.Context, url string, basic domain.Analysis) domain.ReportBody {
	e.calls++
	return e.body
}

type fakeMailer struct {
	err   error
	calls int
}

func (m *fakeMailer) SendReport(toEmail, url string, report domain.ReportBody) error {
	m.calls++
	return m.err
}

// ---------- wiring ----------

type apiFixtures struct {
	db       *gorm.DB
	prober   *fakeProber
	analyzer *fakeAnalyzer
	expander *fakeExpander
	mailer   *fakeMailer
	r        *gin.Engine
}

func routerConfig() config.Config {
	return config.Config{
		AppEnv:      "test",
		APIBasePath: "/api/v1",
		// High enough that the edge limiter never interferes with tests.
		RateRPS:      10000,
		RateBurst:    10000,
		ProbeTimeout: time.Second,
		Quota: config.QuotaConfig{
			MaxScansPerIP:      5,
			MaxReportsPerEmail: 3,
			ContactEmail:       "businessscan@ai-group.nl",
		},
		Security: config.SecurityConfig{HSTSMaxAge: time.Hour},
	}
}

func analysisFixture() domain.Analysis {
	return domain.Analysis{
		CompanyDescription: "Bedrijf Example is een innovatief bedrijf.",
		Opportunities: []domain.Opportunity{
			{ID: 1, Title: "Chatbot voor Klantenservice"},
			{ID: 2, Title: "Predictive Analytics voor Verkoop"},
			{ID: 3, Title: "Geautomatiseerde Content Generatie"},
		},
	}
}

func newAPI(t *testing.T) *apiFixtures {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &apiFixtures{
		db:       newRouterDB(t),
		prober:   &fakeProber{result: webfetch.ProbeResult{Reachable: true}},
		analyzer: &fakeAnalyzer{analysis: analysisFixture()},
		expander: &fakeExpander{body: domain.ReportBody{ExecutiveSummary: "Samenvatting."}},
		mailer:   &fakeMailer{},
	}

	f.r = gin.New()
	RegisterRoutes(f.r, f.db, routerConfig(), Deps{
		Prober:   f.prober,
		Analyzer: f.analyzer,
		Expander: f.expander,
		Mailer:   f.mailer,
	})
	return f
}

func (f *apiFixtures) do(t *testing.T, method, path, body, clientIP string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}
	f.r.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return body
}

// ---------- basics ----------

func TestHealthEndpoint(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := parse(t, w); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestNoRouteAndNoMethod(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodGet, "/nope", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if body := parse(t, w); body["code"] != "not_found" {
		t.Errorf("code = %v", body["code"])
	}

	w = f.do(t, http.MethodDelete, "/api/v1/scans", "", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", w.Code)
	}
}

// ---------- end-to-end scenarios ----------

// A schemeless URL comes back normalized with exactly three opportunities,
// and the stored record is retrievable by its ID.
func TestScanEndToEnd_NormalizationAndRetrieval(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/scans", `{"url":"example.com"}`, "203.0.113.9")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	body := parse(t, w)
	if body["url"] != "https://example.com" {
		t.Errorf("url = %v; want normalized", body["url"])
	}
	opps, _ := body["aiOpportunities"].([]any)
	if len(opps) != 3 {
		t.Errorf("opportunities = %d; want 3", len(opps))
	}
	scanID, _ := body["scanId"].(string)
	if !strings.HasPrefix(scanID, "scan_") {
		t.Fatalf("scanId = %q", scanID)
	}

	// Retrieval by ID.
	w = f.do(t, http.MethodGet, "/api/v1/scans/"+scanID, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := parse(t, w)
	if got["scanId"] != scanID || got["url"] != "https://example.com" {
		t.Errorf("stored scan = %v", got)
	}

	// The ledger now reflects one scan for this IP.
	w = f.do(t, http.MethodGet, "/api/v1/scans/limit", "", "203.0.113.9")
	if lim := parse(t, w); lim["currentCount"] != float64(1) || lim["maxLimit"] != float64(5) {
		t.Errorf("limit = %v", lim)
	}
}

// The sixth request for an IP at ceiling 5 is rejected with the structured
// 429 before any probe or completion work happens.
func TestScanEndToEnd_SixthRequestRejected(t *testing.T) {
	f := newAPI(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		url := fmt.Sprintf("https://site%d.example", i)
		if _, err := repo.CreateScan(ctx, f.db, url, analysisFixture(), "203.0.113.9"); err != nil {
			t.Fatalf("seed scan %d: %v", i, err)
		}
	}

	w := f.do(t, http.MethodPost, "/api/v1/scans", `{"url":"https://example.com"}`, "203.0.113.9")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	body := parse(t, w)
	if body["limitReached"] != true || body["limitType"] != "scan" {
		t.Errorf("body = %v", body)
	}
	if body["currentCount"] != float64(5) || body["maxLimit"] != float64(5) {
		t.Errorf("counts = %v/%v", body["currentCount"], body["maxLimit"])
	}
	if f.prober.calls != 0 || f.analyzer.calls != 0 {
		t.Errorf("rejected request still probed or analyzed (probe=%d analyze=%d)",
			f.prober.calls, f.analyzer.calls)
	}

	// A different IP is unaffected.
	w = f.do(t, http.MethodPost, "/api/v1/scans", `{"url":"https://example.com"}`, "198.51.100.1")
	if w.Code != http.StatusOK {
		t.Fatalf("other ip status = %d", w.Code)
	}
}

// A failing mailer leaves the request successful and the stored record
// marked as unsent.
func TestReportEndToEnd_MailFailureIsBestEffort(t *testing.T) {
	f := newAPI(t)
	f.mailer.err = fmt.Errorf("smtp timeout")

	w := f.do(t, http.MethodPost, "/api/v1/reports",
		`{"email":"User@Example.COM","url":"example.com"}`, "203.0.113.9")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	body := parse(t, w)
	if body["success"] != true || body["emailSent"] != false {
		t.Errorf("body = %v", body)
	}
	reportID, _ := body["reportId"].(string)
	if !strings.HasPrefix(reportID, "report_") {
		t.Fatalf("reportId = %q", reportID)
	}

	rec, err := repo.GetExpandedReport(context.Background(), f.db, reportID)
	if err != nil {
		t.Fatalf("stored report not retrievable: %v", err)
	}
	if rec.EmailSent || rec.EmailSentAt != nil {
		t.Errorf("dispatch recorded despite failure: %+v", rec)
	}
	if rec.Email != "user@example.com" {
		t.Errorf("stored email = %q; want normalized", rec.Email)
	}
	if rec.URL != "https://example.com" {
		t.Errorf("stored url = %q; want normalized", rec.URL)
	}
	if f.mailer.calls != 1 {
		t.Errorf("mailer calls = %d", f.mailer.calls)
	}
}

func TestReportEndToEnd_SuccessfulDispatchRecorded(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/reports",
		`{"email":"user@example.com","url":"example.com"}`, "203.0.113.9")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	body := parse(t, w)
	if body["emailSent"] != true {
		t.Errorf("emailSent = %v", body["emailSent"])
	}
	sc, _ := body["scanCount"].(map[string]any)
	if sc["current"] != float64(1) || sc["max"] != float64(3) {
		t.Errorf("scanCount = %v", sc)
	}

	reportID, _ := body["reportId"].(string)
	rec, err := repo.GetExpandedReport(context.Background(), f.db, reportID)
	if err != nil {
		t.Fatalf("stored report not retrievable: %v", err)
	}
	if !rec.EmailSent || rec.EmailSentAt == nil {
		t.Errorf("dispatch not recorded: %+v", rec)
	}
}

func TestReportEndToEnd_FourthRequestRejected(t *testing.T) {
	f := newAPI(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		url := fmt.Sprintf("https://site%d.example", i)
		if _, err := repo.CreateExpandedReport(ctx, f.db, "", "user@example.com", url, domain.ReportBody{}); err != nil {
			t.Fatalf("seed report %d: %v", i, err)
		}
	}

	w := f.do(t, http.MethodPost, "/api/v1/reports",
		`{"email":"user@example.com","url":"example.com"}`, "203.0.113.9")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	body := parse(t, w)
	if body["limitType"] != "fullscan" || body["currentCount"] != float64(3) {
		t.Errorf("body = %v", body)
	}
	if f.expander.calls != 0 || f.mailer.calls != 0 {
		t.Errorf("rejected request still expanded or mailed")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodGet, "/health", "", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Errorf("no request id on response")
	}
}
