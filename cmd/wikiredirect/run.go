package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/wikiredirect/cache"
	"github.com/jonwraymond/wikiredirect/config"
	"github.com/jonwraymond/wikiredirect/health"
	"github.com/jonwraymond/wikiredirect/observe"
	"github.com/jonwraymond/wikiredirect/resilience"
	"github.com/jonwraymond/wikiredirect/resolve"
	"github.com/jonwraymond/wikiredirect/search"
	"github.com/jonwraymond/wikiredirect/secret"
	"github.com/jonwraymond/wikiredirect/server"
	"github.com/jonwraymond/wikiredirect/wiki"
)

func run(ctx context.Context, cfg config.Config) (err error) {
	obs, err := observe.NewObserver(ctx, cfg.Observe())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		err = errors.Join(err, obs.Shutdown(shutdownCtx))
	}()
	logger := obs.Logger()

	site, err := wiki.NewSite(cfg.WikiSite)
	if err != nil {
		return err
	}

	logger.Info(ctx, "resolving titles", observe.F("site", site.Origin()), observe.F("space", cfg.WikiSpace))

	user, token, err := cfg.Credentials(ctx, secret.DefaultResolver(), logger)
	if err != nil {
		return err
	}

	bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{
		MaxConcurrent: cfg.SearchMaxConcurrent,
		MaxWait:       cfg.SearchQueueWait,
	})
	searcher, err := search.NewClient(search.Config{
		Site:     site,
		Filter:   search.NewFilter(cfg.WikiSpace),
		Auth:     search.NewAuthenticator(user, token, cfg.Netrc),
		Bulkhead: bulkhead,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	checks := health.NewAggregator(0)
	checks.Register(health.NewMemoryChecker(health.MemoryCheckerConfig{}))
	checks.Register(health.NewBulkheadChecker(bulkhead))

	durable, err := durableStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if durable != nil {
		checks.Register(health.NewOptionalPingChecker("durable_store", durable))
	}

	tiered := cache.TieredConfig{Capacity: cfg.CacheSize, Logger: logger}
	if durable != nil {
		tiered.Durable = durable
	}
	titles, err := cache.NewTiered(tiered)
	if err != nil {
		return err
	}
	checks.Register(health.NewCacheModeChecker(titles.Durable()))

	resolver, err := resolve.New(resolve.Config{
		Site:     site,
		Space:    cfg.WikiSpace,
		Searcher: searcher,
		Cache:    titles,
		Logger:   logger,
		Tracer:   obs.Tracer(),
		Metrics:  obs.Metrics(),
	})
	if err != nil {
		return err
	}

	var metrics http.Handler
	if cfg.MetricsExporter == "prometheus" {
		metrics = promhttp.Handler()
	}

	srv, err := server.New(server.Config{
		Resolver:        resolver,
		Health:          checks,
		Metrics:         metrics,
		Middleware:      observe.NewMiddleware(obs.Tracer(), obs.Metrics(), logger),
		Logger:          logger,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, cfg.Addr())
}

// durableStore returns the S3 store for S3_BUCKET, or nil when unset.
func durableStore(ctx context.Context, cfg config.Config, logger observe.Logger) (*cache.S3Store, error) {
	if cfg.S3Bucket == "" {
		logger.Warn(ctx, "S3_BUCKET not set; cache will not survive restart")
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	store, err := cache.NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "durable cache enabled", observe.F("bucket", "s3://"+store.Bucket()))
	return store, nil
}
