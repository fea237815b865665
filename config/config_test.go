package config

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jonwraymond/opsdash/observe"
)

var allKeys = []string{
	"OPSDASH_MODE", "HTTP_ADDR", "ALERT_THRESHOLD", "DISK_PATH", "TOP_PROCESSES",
	"HISTORY_SIZE", "SAMPLE_TIMEOUT", "MAX_CONCURRENT_SAMPLES", "FILES_ROOT",
	"UPLOAD_DIR", "MAX_UPLOAD_BYTES", "ANALYZE_CACHE_TTL", "HOUSEKEEPING_RATE",
	"ALLOWED_ORIGINS", "SNAPSHOT_PATH", "STREAM_INTERVAL", "STREAM_DURATION",
	"SERVICE_NAME", "SERVICE_VERSION", "LOG_LEVEL", "TRACING_EXPORTER",
	"TRACING_SAMPLE_PCT", "METRICS_EXPORTER",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	want := Default()
	if !reflect.DeepEqual(*cfg, want) {
		t.Errorf("FromEnv() = %+v, want %+v", *cfg, want)
	}
	if cfg.AlertThreshold != 80 || cfg.HistorySize != 100 || cfg.Addr != ":8000" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPSDASH_MODE", "stream")
	t.Setenv("ALERT_THRESHOLD", "90.5")
	t.Setenv("TOP_PROCESSES", "10")
	t.Setenv("SAMPLE_TIMEOUT", "2s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("OPSDASH_DATA", "/var/opsdash")
	t.Setenv("FILES_ROOT", "${OPSDASH_DATA}/files")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Mode != ModeStream {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if cfg.AlertThreshold != 90.5 {
		t.Errorf("AlertThreshold = %v", cfg.AlertThreshold)
	}
	if cfg.TopProcesses != 10 {
		t.Errorf("TopProcesses = %d", cfg.TopProcesses)
	}
	if cfg.SampleTimeout != 2*time.Second {
		t.Errorf("SampleTimeout = %v", cfg.SampleTimeout)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if cfg.FilesRoot != "/var/opsdash/files" {
		t.Errorf("FilesRoot = %q", cfg.FilesRoot)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestFromEnv_ParseErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOP_PROCESSES", "many")
	t.Setenv("SAMPLE_TIMEOUT", "soon")

	_, err := FromEnv()
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("FromEnv() error = %v, want ErrInvalidValue", err)
	}
}

func TestFromEnv_MissingPathVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISK_PATH", "${OPSDASH_UNSET_MOUNT}")

	_, err := FromEnv()
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("FromEnv() error = %v, want ErrMissingEnv", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"threshold 100", func(c *Config) { c.AlertThreshold = 100 }, nil},
		{"threshold zero", func(c *Config) { c.AlertThreshold = 0 }, ErrOutOfRange},
		{"threshold above 100", func(c *Config) { c.AlertThreshold = 100.1 }, ErrOutOfRange},
		{"bad mode", func(c *Config) { c.Mode = "daemon" }, ErrInvalidMode},
		{"zero history", func(c *Config) { c.HistorySize = 0 }, ErrOutOfRange},
		{"zero top", func(c *Config) { c.TopProcesses = 0 }, ErrOutOfRange},
		{"zero timeout", func(c *Config) { c.SampleTimeout = 0 }, ErrOutOfRange},
		{"zero rate", func(c *Config) { c.HousekeepingRate = 0 }, ErrOutOfRange},
		{"stream interval too long", func(c *Config) {
			c.Mode = ModeStream
			c.StreamInterval = time.Minute
			c.StreamDuration = time.Second
		}, ErrOutOfRange},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, observe.ErrInvalidLogLevel},
		{"bad metrics exporter", func(c *Config) { c.MetricsExporter = "statsd" }, observe.ErrInvalidMetricsExporter},
		{"bad sample pct", func(c *Config) {
			c.TracingExporter = "stdout"
			c.TracingSamplePct = 2
		}, observe.ErrInvalidSamplePct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestObserve(t *testing.T) {
	cfg := Default()
	oc := cfg.Observe()
	if oc.ServiceName != "opsdash" || oc.Version != "1.0.0" {
		t.Errorf("Observe() service = %q %q", oc.ServiceName, oc.Version)
	}
	if oc.Tracing.Enabled {
		t.Error("tracing should be disabled when exporter is none")
	}
	if !oc.Metrics.Enabled || oc.Metrics.Exporter != "prometheus" {
		t.Errorf("Observe().Metrics = %+v", oc.Metrics)
	}
}
