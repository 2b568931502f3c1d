// Package cache remembers which wiki page a title resolved to.
//
// It has two tiers: a bounded, least-recently-used in-memory tier (Memory)
// and an optional durable tier (Store), typically an S3 bucket (S3Store).
// Tiered combines them: lookups try memory first and promote durable hits
// into memory; stores always write memory and, when configured, the durable
// tier as well. Both tiers use the same namespaced key (see Key).
package cache
