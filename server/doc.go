// Package server exposes title resolution over HTTP.
//
// Routes:
//
//	GET /              302 to the wiki space landing page
//	GET /t/{title}     302 to the resolved page or to full-text search
//	GET /healthz       liveness
//	GET /readyz        readiness
//	GET /health        detailed health as JSON
//	GET /metrics       Prometheus scrape endpoint, when configured
package server
