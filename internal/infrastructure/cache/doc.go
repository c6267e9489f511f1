// Package cache provides the in-memory caches of the service: a bounded,
// expire-after-write token cache and a read-through cache for idempotency records.
package cache
