package config

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/wikiredirect/observe"
	"github.com/jonwraymond/wikiredirect/secret"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.Addr() != ":8000" {
		t.Errorf("Addr() = %q, want :8000", cfg.Addr())
	}
	if cfg.WikiSite != "https://nextstrain.atlassian.net" {
		t.Errorf("WikiSite = %q", cfg.WikiSite)
	}
	if cfg.WikiSpace != "NEXTSTRAIN" {
		t.Errorf("WikiSpace = %q", cfg.WikiSpace)
	}
	if cfg.CacheSize != 42 {
		t.Errorf("CacheSize = %d, want 42", cfg.CacheSize)
	}
	if cfg.SearchMaxConcurrent != 16 || cfg.SearchQueueWait != 0 {
		t.Errorf("search limits = %d, %v", cfg.SearchMaxConcurrent, cfg.SearchQueueWait)
	}
	if cfg.S3Bucket != "" {
		t.Errorf("S3Bucket = %q, want empty", cfg.S3Bucket)
	}
	if cfg.LogFormat != "text" || cfg.LogLevel != "info" {
		t.Errorf("logging = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("S3_BUCKET", "nextstrain-wiki-redirects")
	t.Setenv("CACHE_SIZE", "100")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SEARCH_QUEUE_WAIT", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr() != ":5000" {
		t.Errorf("Addr() = %q, want :5000", cfg.Addr())
	}
	if cfg.S3Bucket != "nextstrain-wiki-redirects" {
		t.Errorf("S3Bucket = %q", cfg.S3Bucket)
	}
	if cfg.CacheSize != 100 {
		t.Errorf("CacheSize = %d, want 100", cfg.CacheSize)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.SearchQueueWait != 250*time.Millisecond {
		t.Errorf("SearchQueueWait = %v", cfg.SearchQueueWait)
	}
}

func TestLoadFrom_HTTPAddrOverridesPort(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"HTTP_ADDR": "127.0.0.1:9000", "PORT": "0"})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    error
	}{
		{"port", map[string]string{"PORT": "70000"}, ErrInvalidPort},
		{"cache size", map[string]string{"CACHE_SIZE": "0"}, ErrInvalidCacheSize},
		{"space", map[string]string{"WIKI_SPACE": " "}, ErrInvalidSpace},
		{"bulkhead", map[string]string{"SEARCH_MAX_CONCURRENT": "-1"}, ErrInvalidBulkhead},
		{"duration", map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, ErrInvalidDuration},
		{"exporter", map[string]string{"TRACING_EXPORTER": "zipkin"}, observe.ErrInvalidTracingExporter},
		{"metrics", map[string]string{"METRICS_EXPORTER": "statsd"}, observe.ErrInvalidMetricsExporter},
		{"log format", map[string]string{"LOG_FORMAT": "xml"}, observe.ErrInvalidLogFormat},
		{"sample", map[string]string{"TRACING_SAMPLE_PCT": "2"}, observe.ErrInvalidSamplePct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadFrom() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFrom_BadSite(t *testing.T) {
	if _, err := LoadFrom(map[string]string{"WIKI_SITE": "ftp://example.com"}); err == nil {
		t.Error("LoadFrom() should reject a non-http site")
	}
}

func TestLoadFrom_Unparseable(t *testing.T) {
	if _, err := LoadFrom(map[string]string{"CACHE_SIZE": "lots"}); err == nil {
		t.Error("LoadFrom() should reject a non-integer CACHE_SIZE")
	}
}

func TestCredentials(t *testing.T) {
	t.Setenv("REAL_TOKEN", "s3cr3t")
	ctx := context.Background()
	resolver := secret.DefaultResolver()

	tests := []struct {
		name      string
		user      string
		token     string
		wantUser  string
		wantToken string
		warns     bool
	}{
		{"none", "", "", "", "", false},
		{"both", "bot@example.org", "plain", "bot@example.org", "plain", false},
		{"secretref", "bot@example.org", "secretref:env:REAL_TOKEN", "bot@example.org", "s3cr3t", false},
		{"user only", "bot@example.org", "", "", "", true},
		{"token only", "", "plain", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := observe.NewLoggerWithWriter("info", "text", &buf)
			cfg := Config{AtlassianUser: tt.user, AtlassianToken: tt.token}

			user, token, err := cfg.Credentials(ctx, resolver, logger)
			if err != nil {
				t.Fatalf("Credentials() error = %v", err)
			}
			if user != tt.wantUser || token != tt.wantToken {
				t.Errorf("Credentials() = %q, %q; want %q, %q", user, token, tt.wantUser, tt.wantToken)
			}
			if got := strings.Contains(buf.String(), "level=WARN"); got != tt.warns {
				t.Errorf("warned = %v, want %v (logs: %s)", got, tt.warns, buf.String())
			}
		})
	}
}

func TestCredentials_UnresolvableToken(t *testing.T) {
	cfg := Config{AtlassianUser: "bot", AtlassianToken: "secretref:env:DOES_NOT_EXIST_ANYWHERE"}

	_, _, err := cfg.Credentials(context.Background(), secret.DefaultResolver(), observe.NopLogger())
	if !errors.Is(err, secret.ErrNotFound) {
		t.Errorf("Credentials() error = %v, want secret.ErrNotFound", err)
	}
}
