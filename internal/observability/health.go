// internal/observability/health.go
package observability

import (
	"github.com/heptiolabs/healthcheck"
)

// GoroutineThreshold bounds the liveness check. The collector runs a
// handful of goroutines; anything near this is a leak.
const GoroutineThreshold = 1000

// NewHealth returns the liveness/readiness handler.
// device reports whether the inverter is answering.
func NewHealth(device healthcheck.Check) healthcheck.Handler {
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(GoroutineThreshold))
	if device != nil {
		health.AddReadinessCheck("device", device)
	}
	return health
}
