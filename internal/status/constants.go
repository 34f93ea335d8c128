// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents a group that has not been polled yet.
const HealthUnknown uint16 = 0

// HealthOK represents a group whose last poll succeeded.
const HealthOK uint16 = 1

// HealthError represents a group whose last poll exhausted its retries.
const HealthError uint16 = 2

// HealthStale represents a group with no successful poll for StaleCycles cadences.
const HealthStale uint16 = 3

// ---- LIMITS ----

// StaleCycles is the number of missed cadences after which a healthy
// group is reported stale.
const StaleCycles = 3

// HealthString returns the short name of a health code.
func HealthString(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	default:
		return "unknown"
	}
}
