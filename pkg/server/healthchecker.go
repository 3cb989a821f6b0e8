package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

// All is healthy when every checker is; with no checkers it is always healthy.
func All(checkers ...HealthChecker) HealthChecker {
	return HealthCheckerFunc(func(ctx context.Context) bool {
		for _, c := range checkers {
			if !c.Healthy(ctx) {
				return false
			}
		}
		return true
	})
}
