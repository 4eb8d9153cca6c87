package health

import "context"

// Checker reports the availability of one dependency.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc adapts a ping-style function to Checker.
type CheckFunc func(ctx context.Context) error

// HealthCheck implements Checker.
func (f CheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }
