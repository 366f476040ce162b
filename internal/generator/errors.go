package generator

import "errors"

var (
	ErrInvalidConfig = errors.New("generator: invalid config")
	ErrInvalidCount  = errors.New("generator: combination count out of range")

	// ErrSamplingExhausted is returned when a combination could not be
	// accepted within Config.MaxAttempts draws.
	ErrSamplingExhausted = errors.New("generator: sampling attempts exhausted")

	// errPoolExhausted aborts a single draw; the caller retries.
	errPoolExhausted = errors.New("generator: pool too small to sample")
)

const (
	MinCount = 1
	MaxCount = 20
)
