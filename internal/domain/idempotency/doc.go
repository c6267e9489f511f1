// Package idempotency stores the outcome of requests sent with an Idempotency-Key
// so that retries replay the original response instead of executing again.
package idempotency
