// internal/collector/policy.go
package collector

import (
	"fmt"

	cfg "github.com/tamzrod/inverter-collector/internal/config"
)

// FailurePolicy decides what happens when a batch exhausts its retries.
type FailurePolicy int

const (
	// PolicySkip logs the failure, marks the group unhealthy and moves it
	// to its next slot. Other groups are unaffected.
	PolicySkip FailurePolicy = iota
	// PolicyAbort stops the loop with the transport error.
	PolicyAbort
)

func (p FailurePolicy) String() string {
	switch p {
	case PolicySkip:
		return cfg.PolicySkip
	case PolicyAbort:
		return cfg.PolicyAbort
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParsePolicy maps the on_read_failure setting to a policy.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", cfg.PolicySkip:
		return PolicySkip, nil
	case cfg.PolicyAbort:
		return PolicyAbort, nil
	default:
		return PolicySkip, fmt.Errorf("collector: unknown failure policy %q", s)
	}
}
