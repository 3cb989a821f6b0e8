package pg

import (
	"context"
	"time"
)

const healthTimeout = 2 * time.Second

type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{pool: pool}
}

// Healthy pings the database, giving up after a short timeout.
func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return hc.pool.Ping(ctx) == nil
}
