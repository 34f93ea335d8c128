// internal/scheduler/scheduler.go
package scheduler

import (
	"errors"
	"fmt"
	"time"
)

var ErrEmpty = errors.New("scheduler: no groups")

// Scheduler owns the group list and their due times.
// It is not safe for concurrent use; the collector loop is its only user.
type Scheduler struct {
	groups []*Group
}

// New validates groups and seeds their due times. Each group starts on
// the aligned slot at or before now, so the first cycle polls everything
// immediately and stays phase-locked afterwards.
func New(groups []*Group, now time.Time) (*Scheduler, error) {
	seen := make(map[string]struct{}, len(groups))

	for i, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("scheduler: group %d is nil", i)
		}
		if g.Name == "" {
			return nil, fmt.Errorf("scheduler: group %d has no name", i)
		}
		if _, dup := seen[g.Name]; dup {
			return nil, fmt.Errorf("scheduler: duplicate group %q", g.Name)
		}
		seen[g.Name] = struct{}{}

		if g.Cadence <= 0 {
			return nil, fmt.Errorf("scheduler: group %q: cadence must be > 0", g.Name)
		}
		if g.Cadence%time.Second != 0 {
			return nil, fmt.Errorf("scheduler: group %q: cadence %s is not whole seconds", g.Name, g.Cadence)
		}
		if len(g.Columns) == 0 {
			return nil, fmt.Errorf("scheduler: group %q has no columns", g.Name)
		}
		for _, c := range g.Columns {
			if c.Register == nil {
				return nil, fmt.Errorf("scheduler: group %q column %q has no register", g.Name, c.Label)
			}
		}

		g.Next = Align(g.Cadence, now).Add(-g.Cadence)
	}

	return &Scheduler{groups: groups}, nil
}

// Groups returns the group list in scheduling order.
func (s *Scheduler) Groups() []*Group {
	return s.groups
}

// Empty reports whether there is nothing left to schedule.
func (s *Scheduler) Empty() bool {
	return len(s.groups) == 0
}

// Due returns the groups whose Next is not after now, in list order.
func (s *Scheduler) Due(now time.Time) []*Group {
	var out []*Group
	for _, g := range s.groups {
		if !g.Next.After(now) {
			out = append(out, g)
		}
	}
	return out
}

// Advance moves g to the first aligned slot after now.
// Next never moves backwards, even if the wall clock does.
func (s *Scheduler) Advance(g *Group, now time.Time) {
	next := Align(g.Cadence, now)
	if !next.After(g.Next) {
		next = Align(g.Cadence, g.Next)
	}
	g.Next = next
}

// NextWake returns the earliest due time over all groups.
func (s *Scheduler) NextWake() (time.Time, error) {
	if s.Empty() {
		return time.Time{}, ErrEmpty
	}
	wake := s.groups[0].Next
	for _, g := range s.groups[1:] {
		if g.Next.Before(wake) {
			wake = g.Next
		}
	}
	return wake, nil
}

// Remove drops the named group. It reports whether the group existed.
func (s *Scheduler) Remove(name string) bool {
	for i, g := range s.groups {
		if g.Name == name {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return true
		}
	}
	return false
}
