package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/wikiredirect/observe"
	"github.com/jonwraymond/wikiredirect/secret"
	"github.com/jonwraymond/wikiredirect/wiki"
)

// ServiceName identifies the service in telemetry.
const ServiceName = "wikiredirect"

// Sentinel errors for configuration.
var (
	ErrInvalidPort      = errors.New("config: PORT must be between 1 and 65535")
	ErrInvalidCacheSize = errors.New("config: CACHE_SIZE must be positive")
	ErrInvalidSpace     = errors.New("config: WIKI_SPACE is required")
	ErrInvalidBulkhead  = errors.New("config: SEARCH_MAX_CONCURRENT must be positive")
	ErrInvalidDuration  = errors.New("config: duration must not be negative")
)

// Config is the complete service configuration.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8000"`
	HTTPAddr string `env:"HTTP_ADDR"`

	WikiSite  string `env:"WIKI_SITE" envDefault:"https://nextstrain.atlassian.net"`
	WikiSpace string `env:"WIKI_SPACE" envDefault:"NEXTSTRAIN"`

	AtlassianUser  string `env:"ATLASSIAN_USER"`
	AtlassianToken string `env:"ATLASSIAN_TOKEN"`
	Netrc          string `env:"NETRC"`

	S3Bucket  string `env:"S3_BUCKET"`
	CacheSize int    `env:"CACHE_SIZE" envDefault:"42"`

	SearchMaxConcurrent int           `env:"SEARCH_MAX_CONCURRENT" envDefault:"16"`
	SearchQueueWait     time.Duration `env:"SEARCH_QUEUE_WAIT" envDefault:"0s"`

	LogLevel         string  `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string  `env:"LOG_FORMAT" envDefault:"text"`
	TracingExporter  string  `env:"TRACING_EXPORTER" envDefault:"none"`
	TracingSamplePct float64 `env:"TRACING_SAMPLE_PCT" envDefault:"1.0"`
	MetricsExporter  string  `env:"METRICS_EXPORTER" envDefault:"none"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Version is stamped at build time, not read from the environment.
	Version string
}

// Load parses the process environment and validates the result.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" && (c.Port < 1 || c.Port > 65535) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if _, err := wiki.NewSite(c.WikiSite); err != nil {
		return fmt.Errorf("config: WIKI_SITE: %w", err)
	}
	if strings.TrimSpace(c.WikiSpace) == "" {
		return ErrInvalidSpace
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.CacheSize)
	}
	if c.SearchMaxConcurrent <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBulkhead, c.SearchMaxConcurrent)
	}
	if c.SearchQueueWait < 0 || c.ShutdownTimeout < 0 {
		return ErrInvalidDuration
	}
	obs := c.Observe()
	return obs.Validate()
}

// Addr returns the listen address: HTTP_ADDR if set, otherwise all
// interfaces on PORT.
func (c *Config) Addr() string {
	if c.HTTPAddr != "" {
		return c.HTTPAddr
	}
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}

// Observe returns the telemetry configuration.
func (c *Config) Observe() observe.Config {
	return observe.Config{
		ServiceName: ServiceName,
		Version:     c.Version,
		Tracing:     observe.TracingConfig{Exporter: c.TracingExporter, SamplePct: c.TracingSamplePct},
		Metrics:     observe.MetricsConfig{Exporter: c.MetricsExporter},
		Logging:     observe.LoggingConfig{Level: c.LogLevel, Format: c.LogFormat},
	}
}

// Credentials resolves the explicit search API credentials. It returns an
// empty pair unless both user and token are set, in which case ambient
// credentials (netrc) apply. The token may be a secret reference.
func (c *Config) Credentials(ctx context.Context, resolver *secret.Resolver, logger observe.Logger) (user, token string, err error) {
	if c.AtlassianUser == "" && c.AtlassianToken == "" {
		return "", "", nil
	}
	if c.AtlassianUser == "" || c.AtlassianToken == "" {
		logger.Warn(ctx, "only one of ATLASSIAN_USER and ATLASSIAN_TOKEN is set; using netrc credentials")
		return "", "", nil
	}
	token, err = resolver.ResolveValue(ctx, c.AtlassianToken)
	if err != nil {
		return "", "", fmt.Errorf("config: ATLASSIAN_TOKEN: %w", err)
	}
	return c.AtlassianUser, token, nil
}
