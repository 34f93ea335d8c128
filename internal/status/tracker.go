// internal/status/tracker.go
package status

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

type entry struct {
	cadence    time.Duration
	snap       Snapshot
	errorSince time.Time
}

// Tracker records per-group poll outcomes.
// The collector loop writes; the health endpoint reads.
type Tracker struct {
	mu     sync.Mutex
	groups map[string]*entry
	now    func() time.Time
}

func NewTracker() *Tracker {
	return NewTrackerWithClock(time.Now)
}

// NewTrackerWithClock uses now to judge staleness.
func NewTrackerWithClock(now func() time.Time) *Tracker {
	return &Tracker{
		groups: make(map[string]*entry),
		now:    now,
	}
}

// Register announces a group so it is reported before its first poll.
func (t *Tracker) Register(group string, cadence time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.groups[group]; ok {
		return
	}
	t.groups[group] = &entry{
		cadence: cadence,
		snap:    Snapshot{Group: group, Health: HealthUnknown},
	}
}

// Forget removes a group.
func (t *Tracker) Forget(group string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.groups, group)
}

// Record stores the outcome of one poll of group at time at.
func (t *Tracker) Record(group string, at time.Time, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.groups[group]
	if !ok {
		e = &entry{snap: Snapshot{Group: group}}
		t.groups[group] = e
	}

	if err == nil {
		e.snap.Health = HealthOK
		e.snap.LastError = ""
		e.snap.ConsecutiveFailures = 0
		e.snap.LastSuccess = at
		e.snap.SecondsInError = 0
		e.errorSince = time.Time{}
		return
	}

	if e.errorSince.IsZero() {
		e.errorSince = at
	}
	e.snap.Health = HealthError
	e.snap.LastError = err.Error()
	e.snap.ConsecutiveFailures++
	e.snap.SecondsInError = uint32(at.Sub(e.errorSince) / time.Second)
}

// Snapshot returns the current state of group.
func (t *Tracker) Snapshot(group string) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.groups[group]
	if !ok {
		return Snapshot{}, false
	}
	return t.view(e), true
}

// Snapshots returns all groups sorted by name.
func (t *Tracker) Snapshots() []Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Snapshot, 0, len(t.groups))
	for _, e := range t.groups {
		out = append(out, t.view(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// Check fails unless at least one group is healthy.
// Its signature matches a healthcheck.Check.
func (t *Tracker) Check() error {
	snaps := t.Snapshots()
	if len(snaps) == 0 {
		return fmt.Errorf("no groups registered")
	}
	for _, s := range snaps {
		if s.Health == HealthOK {
			return nil
		}
	}
	return fmt.Errorf("no healthy group (%d registered)", len(snaps))
}

// caller holds mu
func (t *Tracker) view(e *entry) Snapshot {
	s := e.snap
	if s.Health == HealthOK && e.cadence > 0 {
		if t.now().Sub(s.LastSuccess) > StaleCycles*e.cadence {
			s.Health = HealthStale
		}
	}
	return s
}
