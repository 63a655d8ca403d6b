package model

import "time"

// RetryConfig defines backoff behaviour for retried operations
type RetryConfig struct {
	MaxAttempts       int           `json:"max_attempts" mapstructure:"max_attempts"`
	InitialDelay      time.Duration `json:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay          time.Duration `json:"max_delay" mapstructure:"max_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier" mapstructure:"backoff_multiplier"`
}

// DefaultPersistRetry is used when writing results to the result store.
var DefaultPersistRetry = RetryConfig{
	MaxAttempts:       3,
	InitialDelay:      50 * time.Millisecond,
	MaxDelay:          2 * time.Second,
	BackoffMultiplier: 2.0,
}
