package resolve

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/wikiredirect/cache"
	"github.com/jonwraymond/wikiredirect/observe"
	"github.com/jonwraymond/wikiredirect/wiki"
)

// Searcher finds wiki pages by title.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: an empty result is not an error. Any error aborts resolution
//     and is returned to the caller unchanged.
type Searcher interface {
	Search(ctx context.Context, title string) ([]wiki.Page, error)
}

// Config configures a Resolver.
type Config struct {
	Site     *wiki.Site
	Space    string
	Searcher Searcher
	Cache    cache.Cache

	// Optional. Nil values discard.
	Logger  observe.Logger
	Tracer  observe.Tracer
	Metrics observe.Metrics
}

// Result is the outcome of resolving a title.
type Result struct {
	// Title is the normalized title.
	Title string

	// URL is the absolute redirect target.
	URL string

	// Outcome is one of observe.OutcomeCacheHit, OutcomeSearchHit or
	// OutcomeSearchMiss.
	Outcome string
}

// Resolver maps titles to redirect URLs. It is safe for concurrent use.
type Resolver struct {
	site     *wiki.Site
	space    string
	searcher Searcher
	cache    cache.Cache
	logger   observe.Logger
	tracer   observe.Tracer
	metrics  observe.Metrics

	flights singleflight.Group
}

// New creates a Resolver.
func New(cfg Config) (*Resolver, error) {
	switch {
	case cfg.Site == nil:
		return nil, ErrNilSite
	case cfg.Space == "":
		return nil, ErrNoSpace
	case cfg.Searcher == nil:
		return nil, ErrNilSearch
	case cfg.Cache == nil:
		return nil, ErrNilCache
	}
	r := &Resolver{
		site:     cfg.Site,
		space:    cfg.Space,
		searcher: cfg.Searcher,
		cache:    cfg.Cache,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
		metrics:  cfg.Metrics,
	}
	if r.logger == nil {
		r.logger = observe.NopLogger()
	}
	if r.tracer == nil {
		r.tracer = observe.NopTracer()
	}
	if r.metrics == nil {
		r.metrics = observe.NopMetrics()
	}
	return r, nil
}

// Normalize converts a raw path title to a lookup title. A literal "+" is
// treated as a space, so "Nextstrain+CLI" and "Nextstrain CLI" are the same
// title. No other normalization is applied.
func Normalize(raw string) string {
	return strings.ReplaceAll(raw, "+", " ")
}

// Home returns the URL of the space's landing page.
func (r *Resolver) Home() string {
	return r.site.SpaceURL(r.space)
}

// Resolve returns where rawTitle should redirect. A title that is blank
// after normalization redirects to Home without searching.
//
// Errors from the searcher (see search.ErrUpstream) are returned as-is and
// nothing is cached. Durable cache failures never fail a resolution: a
// lookup failure counts as a miss and a store failure is only logged.
func (r *Resolver) Resolve(ctx context.Context, rawTitle string) (Result, error) {
	title := Normalize(rawTitle)
	if strings.TrimSpace(title) == "" {
		r.logger.Info(ctx, "blank title; redirecting to space home")
		return Result{Title: title, URL: r.Home(), Outcome: observe.OutcomeSearchMiss}, nil
	}

	start := time.Now()
	ctx = observe.WithFields(ctx, observe.F("title", title))
	ctx, span := r.tracer.StartSpan(ctx, "wiki.resolve", attribute.String("wiki.title", title))

	// The shared lookup outlives any one caller so followers are not failed
	// by the leader's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := r.flights.Do(title, func() (any, error) {
		return r.resolve(shared, title)
	})

	var res Result
	outcome := observe.OutcomeError
	if err == nil {
		res = v.(Result)
		outcome = res.Outcome
		span.SetAttributes(attribute.String("wiki.outcome", outcome))
	}
	r.tracer.EndSpan(span, err)
	r.metrics.RecordResolution(ctx, outcome, time.Since(start), err)

	if err != nil {
		r.logger.Error(ctx, "resolution failed", observe.F("error", err.Error()))
		return Result{}, err
	}
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, title string) (Result, error) {
	page, found, err := r.cache.Lookup(ctx, title)
	if err != nil {
		r.logger.Warn(ctx, "cache lookup failed; treating as miss", observe.F("error", err.Error()))
	}
	if found {
		if target, ok := r.pageURL(page); ok {
			r.logger.Info(ctx, "remembered page; redirecting",
				observe.F("page_id", page.ID), observe.F("page_title", page.Title), observe.F("url", target))
			return Result{Title: title, URL: target, Outcome: observe.OutcomeCacheHit}, nil
		}
	}

	r.logger.Info(ctx, "searching for page")
	pages, err := r.searcher.Search(ctx, title)
	if err != nil {
		return Result{}, err
	}

	if len(pages) > 0 {
		page := pages[0]
		if target, ok := r.pageURL(page); ok {
			r.logger.Info(ctx, "found page; remembering and redirecting",
				observe.F("page_id", page.ID), observe.F("page_title", page.Title), observe.F("url", target))
			if err := r.cache.Store(ctx, title, page); err != nil {
				r.logger.Error(ctx, "cache store failed", observe.F("error", err.Error()))
			}
			return Result{Title: title, URL: target, Outcome: observe.OutcomeSearchHit}, nil
		}
		r.logger.Warn(ctx, "search result has no web link", observe.F("page_id", page.ID))
	}

	target := r.site.SearchURL(title)
	r.logger.Info(ctx, "no page found; redirecting to full wiki search", observe.F("url", target))
	return Result{Title: title, URL: target, Outcome: observe.OutcomeSearchMiss}, nil
}

func (r *Resolver) pageURL(page wiki.Page) (string, bool) {
	webui, err := page.WebUI()
	if err != nil {
		return "", false
	}
	return r.site.URL(webui), true
}
