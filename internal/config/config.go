package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-andiamo/splitter"
	"github.com/riskibarqy/odds-board/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	CORSAllowedOrigins         []string
	SwaggerEnabled             bool
	DocumentSource             string
	DocumentFetchTimeout       time.Duration
	DocumentMaxBytes           int
	DocumentWorkers            int
	SearchSuggestionLimit      int
	SearchHintLimit            int
	SessionIdleTimeout         time.Duration
	SessionSweepInterval       time.Duration
	CountdownInterval          time.Duration
	RateLimitRPS               float64
	RateLimitBurst             int
	CacheEnabled               bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	documentSource := strings.TrimSpace(getEnv("DOCUMENT_SOURCE", "./public/data.json"))
	documentFetchTimeout, err := getEnvAsDuration("DOCUMENT_FETCH_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	documentMaxBytes, err := getEnvAsInt("DOCUMENT_MAX_BYTES", 32<<20)
	if err != nil {
		return Config{}, fmt.Errorf("parse DOCUMENT_MAX_BYTES: %w", err)
	}
	if documentMaxBytes <= 0 {
		return Config{}, fmt.Errorf("DOCUMENT_MAX_BYTES must be > 0")
	}
	documentWorkers, err := getEnvAsInt("DOCUMENT_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse DOCUMENT_WORKERS: %w", err)
	}
	if documentWorkers < 1 {
		return Config{}, fmt.Errorf("DOCUMENT_WORKERS must be >= 1")
	}

	suggestionLimit, err := getEnvAsInt("SEARCH_SUGGESTION_LIMIT", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEARCH_SUGGESTION_LIMIT: %w", err)
	}
	if suggestionLimit < 1 {
		return Config{}, fmt.Errorf("SEARCH_SUGGESTION_LIMIT must be >= 1")
	}
	hintLimit, err := getEnvAsInt("SEARCH_HINT_LIMIT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEARCH_HINT_LIMIT: %w", err)
	}
	if hintLimit < 0 {
		return Config{}, fmt.Errorf("SEARCH_HINT_LIMIT must be >= 0")
	}

	sessionIdleTimeout, err := getEnvAsDuration("SESSION_IDLE_TIMEOUT", "30m")
	if err != nil {
		return Config{}, err
	}
	sessionSweepInterval, err := getEnvAsDuration("SESSION_SWEEP_INTERVAL", "1m")
	if err != nil {
		return Config{}, err
	}
	countdownInterval, err := getEnvAsDuration("COUNTDOWN_INTERVAL", "1s")
	if err != nil {
		return Config{}, err
	}

	rateLimitRPS, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "50"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse RATE_LIMIT_RPS: %w", err)
	}
	if rateLimitRPS < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	rateLimitBurst, err := getEnvAsInt("RATE_LIMIT_BURST", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse RATE_LIMIT_BURST: %w", err)
	}
	if rateLimitRPS > 0 && rateLimitBurst < 1 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be >= 1 when RATE_LIMIT_RPS > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	corsOrigins, err := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CORS_ALLOWED_ORIGINS: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "odds-board-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:         corsOrigins,
		SwaggerEnabled:             swaggerEnabled,
		DocumentSource:             documentSource,
		DocumentFetchTimeout:       documentFetchTimeout,
		DocumentMaxBytes:           documentMaxBytes,
		DocumentWorkers:            documentWorkers,
		SearchSuggestionLimit:      suggestionLimit,
		SearchHintLimit:            hintLimit,
		SessionIdleTimeout:         sessionIdleTimeout,
		SessionSweepInterval:       sessionSweepInterval,
		CountdownInterval:          countdownInterval,
		RateLimitRPS:               rateLimitRPS,
		RateLimitBurst:             rateLimitBurst,
		CacheEnabled:               cacheEnabled,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.DocumentSource == "" {
		return Config{}, fmt.Errorf("DOCUMENT_SOURCE cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

// getEnvAsDuration parses a positive duration.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

// splitCSV splits a comma separated list; double quoted items may contain commas.
func splitCSV(v string) ([]string, error) {
	commaSplitter, err := splitter.NewSplitter(',', splitter.DoubleQuotes)
	if err != nil {
		return nil, err
	}
	parts, err := commaSplitter.Split(v)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.Trim(strings.TrimSpace(part), `"`)
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items, err := splitCSV(raw)
	if err != nil {
		return ""
	}
	for _, item := range items {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

// IsHTTPSource reports whether the document source is a URL rather than a file path.
func (c Config) IsHTTPSource() bool {
	source := strings.ToLower(c.DocumentSource)
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
