package monitoring

import (
	"context"
	"log/slog"
	"time"
)

const HEALTHCHECK_TIMEOUT = 5 * time.Second

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// CheckAnalyzerHealth checks the remote analyzer once before a run.
func CheckAnalyzerHealth(ctx context.Context, hc HealthChecker) bool {
	ctx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()

	start := time.Now()
	healthy := hc.HealthCheck(ctx)
	if !healthy {
		slog.Warn("[HealthCheck] Analyzer is unhealthy",
			slog.Duration("elapsed", time.Since(start)))
		return false
	}

	slog.Info("[HealthCheck] Analyzer is healthy",
		slog.Duration("elapsed", time.Since(start)))
	return true
}
