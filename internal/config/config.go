// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, quota ceilings, OpenAI
// credentials, SMTP delivery, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "businessscan-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// OpenAIConfig holds the completion-service settings. An empty APIKey is
// allowed: the analyzer then runs in degraded mode and serves fallback
// content instead of calling out.
type OpenAIConfig struct {
	APIKey       string        // OPENAI_API_KEY (optional)
	ScanModel    string        // model for the basic analysis
	ReportModel  string        // model for the expanded report
	Temperature  float32       // sampling temperature (nondeterministic by design)
	MaxTokens    int           // completion token cap
	Timeout      time.Duration // per-call deadline
	MaxRetries   int           // bounded retry for transient failures only
	RetryBackoff time.Duration // base backoff between retries
}

// SMTPConfig holds outbound email settings. When Host, User, or Pass is
// empty the mailer is disabled and report dispatch becomes a logged no-op.
type SMTPConfig struct {
	Host         string // SMTP_HOST
	Port         int    // SMTP_PORT
	User         string // SMTP_USER
	Pass         string // SMTP_PASS
	From         string // SMTP_FROM_EMAIL (defaults to SMTP_USER)
	InternalCopy string // operator address that receives an annotated copy
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.User != "" && s.Pass != ""
}

// QuotaConfig holds the persistent quota ceilings enforced by counting
// prior records per identity (IP for scans, normalized email for reports).
type QuotaConfig struct {
	MaxScansPerIP      int    // SCAN_LIMIT
	MaxReportsPerEmail int    // REPORT_LIMIT
	ContactEmail       string // remediation address shown in 429 payloads
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // generous: LLM calls sit inside requests
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test
	AppEnv            string        // development|production (error detail gating)

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// API
	APIBasePath string // base path for API routes

	// App
	DBPath       string        // SQLite path
	ProbeTimeout time.Duration // reachability probe / content fetch deadline

	// External collaborators
	OpenAI OpenAIConfig
	SMTP   SMTPConfig
	Quota  QuotaConfig

	// Edge rate limiting (token bucket, separate from the persistent quota)
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// IsProduction reports whether error details should be withheld from
// HTTP responses.
func (c Config) IsProduction() bool { return c.AppEnv == "production" }

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 3*time.Minute),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),
		AppEnv:            strings.ToLower(getenv("APP_ENV", "production")),

		// Logging
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// API
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:       getenv("DB_PATH", "app.db"),
		ProbeTimeout: getdur("PROBE_TIMEOUT", 10*time.Second),

		OpenAI: OpenAIConfig{
			APIKey:       getenv("OPENAI_API_KEY", ""),
			ScanModel:    getenv("OPENAI_SCAN_MODEL", "gpt-4o-mini"),
			ReportModel:  getenv("OPENAI_REPORT_MODEL", "gpt-4o"),
			Temperature:  float32(getfloat("OPENAI_TEMPERATURE", 0.7)),
			MaxTokens:    getint("OPENAI_MAX_TOKENS", 4096),
			Timeout:      getdur("OPENAI_TIMEOUT", 60*time.Second),
			MaxRetries:   getint("OPENAI_MAX_RETRIES", 2),
			RetryBackoff: getdur("OPENAI_RETRY_BACKOFF", 2*time.Second),
		},

		SMTP: SMTPConfig{
			Host:         getenv("SMTP_HOST", ""),
			Port:         getint("SMTP_PORT", 587),
			User:         getenv("SMTP_USER", ""),
			Pass:         getenv("SMTP_PASS", ""),
			From:         getenv("SMTP_FROM_EMAIL", ""),
			InternalCopy: getenv("SMTP_INTERNAL_COPY", "businessscan@ai-group.nl"),
		},

		Quota: QuotaConfig{
			MaxScansPerIP:      getint("SCAN_LIMIT", 5),
			MaxReportsPerEmail: getint("REPORT_LIMIT", 3),
			ContactEmail:       getenv("QUOTA_CONTACT_EMAIL", "businessscan@ai-group.nl"),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "businessscan-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.ProbeTimeout <= 0 {
		return cfg, errors.New("PROBE_TIMEOUT must be > 0")
	}
	if cfg.OpenAI.Timeout <= 0 {
		return cfg, errors.New("OPENAI_TIMEOUT must be > 0")
	}
	if cfg.OpenAI.MaxRetries < 0 {
		return cfg, errors.New("OPENAI_MAX_RETRIES must be >= 0")
	}
	if cfg.OpenAI.Temperature < 0 || cfg.OpenAI.Temperature > 2 {
		return cfg, errors.New("OPENAI_TEMPERATURE must be in [0,2]")
	}
	if cfg.Quota.MaxScansPerIP < 1 {
		return cfg, errors.New("SCAN_LIMIT must be >= 1")
	}
	if cfg.Quota.MaxReportsPerEmail < 1 {
		return cfg, errors.New("REPORT_LIMIT must be >= 1")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
