package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jonwraymond/opsdash/observe"
)

// Run modes.
const (
	ModeServe    = "serve"
	ModeSnapshot = "snapshot"
	ModeStream   = "stream"
)

// Configuration errors.
var (
	// ErrInvalidValue indicates an environment variable could not be parsed.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrMissingEnv indicates a ${VAR} reference to an unset variable.
	ErrMissingEnv = errors.New("config: missing required environment variables")

	// ErrInvalidMode indicates an unknown run mode.
	ErrInvalidMode = errors.New("config: invalid mode")

	// ErrOutOfRange indicates a numeric setting outside its allowed range.
	ErrOutOfRange = errors.New("config: value out of range")
)

// Config holds every opsdash setting.
type Config struct {
	Mode string
	Addr string

	AlertThreshold       float64
	DiskPath             string
	TopProcesses         int
	HistorySize          int
	SampleTimeout        time.Duration
	MaxConcurrentSamples int

	FilesRoot        string
	UploadDir        string
	MaxUploadBytes   int64
	AnalyzeCacheTTL  time.Duration
	HousekeepingRate float64
	AllowedOrigins   []string

	SnapshotPath   string
	StreamInterval time.Duration
	StreamDuration time.Duration

	ServiceName      string
	ServiceVersion   string
	LogLevel         string
	TracingExporter  string
	TracingSamplePct float64
	MetricsExporter  string
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Mode:                 ModeServe,
		Addr:                 ":8000",
		AlertThreshold:       80,
		DiskPath:             "/",
		TopProcesses:         5,
		HistorySize:          100,
		SampleTimeout:        5 * time.Second,
		MaxConcurrentSamples: 16,
		FilesRoot:            ".",
		UploadDir:            "uploads",
		MaxUploadBytes:       100 << 20,
		AnalyzeCacheTTL:      5 * time.Minute,
		HousekeepingRate:     2,
		AllowedOrigins:       []string{"*"},
		SnapshotPath:         "system_health_report.json",
		StreamInterval:       5 * time.Second,
		StreamDuration:       60 * time.Second,
		ServiceName:          "opsdash",
		ServiceVersion:       "1.0.0",
		LogLevel:             "info",
		TracingExporter:      "none",
		TracingSamplePct:     1.0,
		MetricsExporter:      "prometheus",
	}
}

// Load reads .env (if present) and the process environment, then
// validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	path := func(key string, dst *string) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		expanded, err := ExpandEnvStrict(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = expanded
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
				return
			}
			*dst = f
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
				return
			}
			*dst = d
		}
	}

	str("OPSDASH_MODE", &cfg.Mode)
	str("HTTP_ADDR", &cfg.Addr)
	float("ALERT_THRESHOLD", &cfg.AlertThreshold)
	path("DISK_PATH", &cfg.DiskPath)
	integer("TOP_PROCESSES", &cfg.TopProcesses)
	integer("HISTORY_SIZE", &cfg.HistorySize)
	duration("SAMPLE_TIMEOUT", &cfg.SampleTimeout)
	integer("MAX_CONCURRENT_SAMPLES", &cfg.MaxConcurrentSamples)
	path("FILES_ROOT", &cfg.FilesRoot)
	path("UPLOAD_DIR", &cfg.UploadDir)
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: MAX_UPLOAD_BYTES=%q", ErrInvalidValue, v))
		} else {
			cfg.MaxUploadBytes = n
		}
	}
	duration("ANALYZE_CACHE_TTL", &cfg.AnalyzeCacheTTL)
	float("HOUSEKEEPING_RATE", &cfg.HousekeepingRate)
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}
	path("SNAPSHOT_PATH", &cfg.SnapshotPath)
	duration("STREAM_INTERVAL", &cfg.StreamInterval)
	duration("STREAM_DURATION", &cfg.StreamDuration)
	str("SERVICE_NAME", &cfg.ServiceName)
	str("SERVICE_VERSION", &cfg.ServiceVersion)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("TRACING_EXPORTER", &cfg.TracingExporter)
	float("TRACING_SAMPLE_PCT", &cfg.TracingSamplePct)
	str("METRICS_EXPORTER", &cfg.MetricsExporter)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations, including the telemetry
// settings through observe.Config.Validate.
func (c *Config) Validate() error {
	if !slices.Contains([]string{ModeServe, ModeSnapshot, ModeStream}, c.Mode) {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if c.AlertThreshold <= 0 || c.AlertThreshold > 100 {
		return fmt.Errorf("%w: ALERT_THRESHOLD must be in (0, 100], got %g", ErrOutOfRange, c.AlertThreshold)
	}
	if c.TopProcesses < 1 {
		return fmt.Errorf("%w: TOP_PROCESSES must be positive, got %d", ErrOutOfRange, c.TopProcesses)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("%w: HISTORY_SIZE must be positive, got %d", ErrOutOfRange, c.HistorySize)
	}
	if c.SampleTimeout <= 0 {
		return fmt.Errorf("%w: SAMPLE_TIMEOUT must be positive, got %s", ErrOutOfRange, c.SampleTimeout)
	}
	if c.MaxConcurrentSamples < 1 {
		return fmt.Errorf("%w: MAX_CONCURRENT_SAMPLES must be positive, got %d", ErrOutOfRange, c.MaxConcurrentSamples)
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("%w: MAX_UPLOAD_BYTES must be positive, got %d", ErrOutOfRange, c.MaxUploadBytes)
	}
	if c.AnalyzeCacheTTL < 0 {
		return fmt.Errorf("%w: ANALYZE_CACHE_TTL must not be negative, got %s", ErrOutOfRange, c.AnalyzeCacheTTL)
	}
	if c.HousekeepingRate <= 0 {
		return fmt.Errorf("%w: HOUSEKEEPING_RATE must be positive, got %g", ErrOutOfRange, c.HousekeepingRate)
	}
	if c.Mode == ModeStream && (c.StreamInterval <= 0 || c.StreamDuration < c.StreamInterval) {
		return fmt.Errorf("%w: STREAM_INTERVAL must be positive and not exceed STREAM_DURATION", ErrOutOfRange)
	}
	obs := c.Observe()
	return obs.Validate()
}

// Observe converts the telemetry settings into an observe.Config.
func (c *Config) Observe() observe.Config {
	return observe.Config{
		ServiceName: c.ServiceName,
		Version:     c.ServiceVersion,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingExporter != "none" && c.TracingExporter != "",
			Exporter:  c.TracingExporter,
			SamplePct: c.TracingSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsExporter != "none" && c.MetricsExporter != "",
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
