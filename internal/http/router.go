// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/ai-group/businessscan-backend/internal/ai"
	"github.com/ai-group/businessscan-backend/internal/config"
	"github.com/ai-group/businessscan-backend/internal/domain"
	"github.com/ai-group/businessscan-backend/internal/http/handlers"
	"github.com/ai-group/businessscan-backend/internal/http/middleware"
	"github.com/ai-group/businessscan-backend/internal/mail"
	"github.com/ai-group/businessscan-backend/internal/repo"
	"github.com/ai-group/businessscan-backend/internal/services"
	"github.com/ai-group/businessscan-backend/internal/webfetch"
)

// scanRepoShim adapts the repository free functions to the services.ScanRepo
// interface. This keeps services decoupled from the concrete repo package
// while reusing existing functions.
type scanRepoShim struct{}

// CreateScan proxies repo.CreateScan.
func (scanRepoShim) CreateScan(ctx context.Context, db *gorm.DB, url string, analysis domain.Analysis, ipAddress string) (*domain.Scan, error) {
	return repo.CreateScan(ctx, db, url, analysis, ipAddress)
}

// GetScan proxies repo.GetScan.
func (scanRepoShim) GetScan(ctx context.Context, db *gorm.DB, id string) (*domain.Scan, error) {
	return repo.GetScan(ctx, db, id)
}

// CountScansByIP proxies repo.CountScansByIP.
func (scanRepoShim) CountScansByIP(ctx context.Context, db *gorm.DB, ipAddress string) (int64, error) {
	return repo.CountScansByIP(ctx, db, ipAddress)
}

// reportRepoShim adapts the repository free functions to services.ReportRepo.
type reportRepoShim struct{}

// CreateExpandedReport proxies repo.CreateExpandedReport.
func (reportRepoShim) CreateExpandedReport(ctx context.Context, db *gorm.DB, scanID, email, url string, body domain.ReportBody) (*domain.ExpandedReport, error) {
	return repo.CreateExpandedReport(ctx, db, scanID, email, url, body)
}

// GetExpandedReport proxies repo.GetExpandedReport.
func (reportRepoShim) GetExpandedReport(ctx context.Context, db *gorm.DB, id string) (*domain.ExpandedReport, error) {
	return repo.GetExpandedReport(ctx, db, id)
}

// CountReportsByEmail proxies repo.CountReportsByEmail.
func (reportRepoShim) CountReportsByEmail(ctx context.Context, db *gorm.DB, email string) (int64, error) {
	return repo.CountReportsByEmail(ctx, db, email)
}

// MarkReportEmailed proxies repo.MarkReportEmailed.
func (reportRepoShim) MarkReportEmailed(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return repo.MarkReportEmailed(ctx, db, id, at)
}

// Deps carries the external collaborators of the scan pipeline. Nil fields
// are filled with the production implementations built from cfg; tests
// substitute fakes to keep outbound traffic and paid API calls out of the
// test run.
type Deps struct {
	Prober   services.Prober
	Analyzer services.Analyzer
	Expander services.Expander
	Mailer   services.Mailer
}

// fill completes deps with production implementations.
func (d Deps) fill(cfg config.Config) Deps {
	if d.Prober == nil {
		d.Prober = webfetch.NewProber(cfg.ProbeTimeout)
	}
	client := ai.NewClient(cfg.OpenAI)
	if d.Analyzer == nil {
		d.Analyzer = ai.NewAnalyzer(client, webfetch.NewFetcher(cfg.ProbeTimeout), cfg.OpenAI.ScanModel)
	}
	if d.Expander == nil {
		d.Expander = ai.NewExpander(client, cfg.OpenAI.ReportModel)
	}
	if d.Mailer == nil {
		d.Mailer = mail.New(cfg.SMTP)
	}
	return d
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per client IP)
//  8. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, deps Deps) {
	r.HandleMethodNotAllowed = true
	deps = deps.fill(cfg)

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB; the API only takes tiny JSON bodies)
	r.Use(limitBody(64 << 10))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/collaborators
	scanSvc := &services.ScanService{
		DB:       db,
		Repo:     scanRepoShim{},
		Prober:   deps.Prober,
		Analyzer: deps.Analyzer,
		MaxPerIP: cfg.Quota.MaxScansPerIP,
	}
	reportSvc := &services.ReportService{
		DB:          db,
		Scans:       scanRepoShim{},
		Repo:        reportRepoShim{},
		Prober:      deps.Prober,
		Analyzer:    deps.Analyzer,
		Expander:    deps.Expander,
		Mailer:      deps.Mailer,
		MaxPerEmail: cfg.Quota.MaxReportsPerEmail,
	}
	quotaSvc := &services.QuotaService{
		DB:                 db,
		Scans:              scanRepoShim{},
		Reports:            reportRepoShim{},
		MaxScansPerIP:      cfg.Quota.MaxScansPerIP,
		MaxReportsPerEmail: cfg.Quota.MaxReportsPerEmail,
	}
	h := handlers.New(scanSvc, reportSvc, quotaSvc, handlers.Options{
		ContactEmail: cfg.Quota.ContactEmail,
		ExposeErrors: !cfg.IsProduction(),
	})

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Scans
		api.POST("/scans", h.CreateScan)
		api.GET("/scans/limit", h.GetScanLimit)
		api.GET("/scans/:id", h.GetScan)

		// Expanded reports
		api.POST("/reports", h.CreateReport)
		api.GET("/reports/limit", h.GetReportLimit)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
