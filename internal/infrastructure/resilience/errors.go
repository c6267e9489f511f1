package resilience

import "errors"

var (
	// ErrRateLimited is returned when the request rate limit is exhausted
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrBulkheadFull is returned when no concurrent request slot frees up in time
	ErrBulkheadFull = errors.New("bulkhead is full")
	// ErrCircuitOpen is returned while the circuit breaker rejects calls
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrTimeout is returned when a single call exceeds the call timeout
	ErrTimeout = errors.New("call timed out")
)
