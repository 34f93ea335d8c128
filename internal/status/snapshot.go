// internal/status/snapshot.go
package status

import "time"

// Snapshot is the health of one group at a point in time.
// It contains no logic.
type Snapshot struct {
	Group               string
	Health              uint16
	LastError           string
	ConsecutiveFailures int
	LastSuccess         time.Time
	SecondsInError      uint32
}
