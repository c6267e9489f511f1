// Package resilience guards the token store. Tokenize and detokenize requests are
// admitted through a rate limiter and a bulkhead; every store call they make gets
// retries with exponential backoff, a circuit breaker and a per-call timeout.
package resilience
