// Package config loads the redirect service configuration from the
// environment.
package config
