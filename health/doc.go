// Package health reports whether the redirect service can do its job.
//
// A Checker reports the Status of one component. The Aggregator runs a set
// of checkers concurrently under a deadline and folds their results into an
// overall status, which the HTTP handlers expose:
//
//	/healthz  liveness, always OK while the process serves requests
//	/readyz   readiness, 503 when any check is unhealthy
//	/health   JSON detail for every check
//
// Built-in checkers cover process memory, the durable cache store (see
// PingChecker), the cache tier configuration and search bulkhead saturation.
package health
