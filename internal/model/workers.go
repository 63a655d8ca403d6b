package model

import "runtime"

// PoolConfig sizes the scheduler's worker pool
type PoolConfig struct {
	Workers int         `json:"workers" mapstructure:"workers"`
	Retry   RetryConfig `json:"retry" mapstructure:"retry"`
}

// WorkerCount returns the configured worker count, falling back to the
// number of CPUs when unset.
func (c PoolConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
