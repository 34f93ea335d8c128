// internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/inverter-collector/internal/register"
)

func group(name string, cadence time.Duration) *Group {
	return &Group{
		Name:    name,
		Cadence: cadence,
		Columns: []Column{{Label: "efficiency", Register: register.Efficiency}},
	}
}

func TestAlign_MultiplesOfCadence(t *testing.T) {
	starts := []time.Time{
		time.Unix(0, 0),
		time.Unix(1700000003, 123456789),
		time.Unix(1700000029, 999999999),
		time.Unix(-7, 0), // before the epoch
	}

	for _, start := range starts {
		ts := start
		for i := 0; i < 50; i++ {
			next := Align(30*time.Second, ts)
			require.True(t, next.After(ts), "align(%v) = %v", ts, next)
			assert.Zero(t, next.UnixNano()%int64(30*time.Second), "align(%v) = %v", ts, next)
			assert.LessOrEqual(t, next.Sub(ts), 30*time.Second)
			ts = next
		}
	}
}

func TestAlign_AlignedInputAdvancesOneCadence(t *testing.T) {
	aligned := time.Unix(1700000010, 0)

	assert.Equal(t, aligned.Add(30*time.Second), Align(30*time.Second, aligned))
	assert.Equal(t, aligned.Add(5*time.Second), Align(5*time.Second, aligned))
}

func TestAlign_JustBeforeBoundary(t *testing.T) {
	t0 := time.Unix(1700000009, 999999999)

	assert.Equal(t, time.Unix(1700000010, 0), Align(5*time.Second, t0))
}

func TestNew_Validation(t *testing.T) {
	now := time.Unix(1700000000, 0)

	_, err := New([]*Group{group("a", 0)}, now)
	assert.Error(t, err)

	_, err = New([]*Group{group("a", 1500*time.Millisecond)}, now)
	assert.Error(t, err)

	_, err = New([]*Group{group("a", time.Second), group("a", time.Second)}, now)
	assert.Error(t, err)

	_, err = New([]*Group{{Name: "a", Cadence: time.Second}}, now)
	assert.Error(t, err)

	_, err = New([]*Group{{Name: "a", Cadence: time.Second, Columns: []Column{{Label: "x"}}}}, now)
	assert.Error(t, err)
}

func TestNew_FirstCycleIsImmediateAndAligned(t *testing.T) {
	now := time.Unix(1700000017, 0)
	s, err := New([]*Group{group("general", 30*time.Second), group("plant_1", 5*time.Second)}, now)
	require.NoError(t, err)

	due := s.Due(now)
	require.Len(t, due, 2)
	assert.Equal(t, "general", due[0].Name)
	assert.Equal(t, "plant_1", due[1].Name)

	assert.Equal(t, time.Unix(1700000010, 0), due[0].Next)
	assert.Equal(t, time.Unix(1700000015, 0), due[1].Next)
}

func TestScheduler_FiveSecondGroupFiresSixTimesPerSlot(t *testing.T) {
	start := time.Unix(1700000003, 250000000)
	slow := group("general", 30*time.Second)
	fast := group("plant_1", 5*time.Second)

	s, err := New([]*Group{slow, fast}, start)
	require.NoError(t, err)

	now := start
	var slowTimes []time.Time
	fastTimes := map[int64]int{} // bucketed by 30s slot

	for cycle := 0; cycle < 200; cycle++ {
		for _, g := range s.Due(now) {
			switch g {
			case slow:
				slowTimes = append(slowTimes, g.Next)
			case fast:
				n := g.Next.UnixNano()
				fastTimes[n-n%int64(30*time.Second)]++
			}
			s.Advance(g, now)

			assert.Zero(t, g.Next.UnixNano()%int64(g.Cadence), "%s next=%v", g.Name, g.Next)
		}

		wake, err := s.NextWake()
		require.NoError(t, err)
		require.True(t, wake.After(now) || wake.Equal(now))
		now = wake
	}

	require.Greater(t, len(slowTimes), 5)
	// skip the first slot, it started mid-way
	for _, slot := range slowTimes[1 : len(slowTimes)-1] {
		assert.Zero(t, slot.UnixNano()%int64(30*time.Second))
		assert.Equal(t, 6, fastTimes[slot.UnixNano()], "slot %v", slot)
	}
}

func TestAdvance_StrictlyIncreasing(t *testing.T) {
	now := time.Unix(1700000000, 0)
	g := group("monitoring", 30*time.Second)
	s, err := New([]*Group{g}, now)
	require.NoError(t, err)

	s.Advance(g, now)
	first := g.Next
	assert.Equal(t, time.Unix(1700000010, 0), first)

	// wall clock stepped backwards
	s.Advance(g, now.Add(-time.Hour))
	assert.True(t, g.Next.After(first))
	assert.Equal(t, first.Add(30*time.Second), g.Next)
}

func TestAdvance_LateCycleSkipsMissedSlots(t *testing.T) {
	now := time.Unix(1700000000, 0)
	g := group("plant_1", 5*time.Second)
	s, err := New([]*Group{g}, now)
	require.NoError(t, err)

	// a slow read finishes 12s late
	s.Advance(g, now.Add(12*time.Second))
	assert.Equal(t, time.Unix(1700000015, 0), g.Next)
}

func TestNextWakeAndRemove(t *testing.T) {
	now := time.Unix(1700000001, 0)
	a := group("a", 30*time.Second)
	b := group("b", 5*time.Second)
	s, err := New([]*Group{a, b}, now)
	require.NoError(t, err)

	s.Advance(a, now)
	s.Advance(b, now)

	wake, err := s.NextWake()
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000005, 0), wake)
	assert.Empty(t, s.Due(now))

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))

	wake, err = s.NextWake()
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000010, 0), wake)

	assert.True(t, s.Remove("a"))
	assert.True(t, s.Empty())
	_, err = s.NextWake()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestGroup_RegistersAndLabels(t *testing.T) {
	g := &Group{Columns: []Column{
		{Label: "voltage", Register: register.PV1Voltage},
		{Label: "current", Register: register.PV1Current},
	}}

	assert.Equal(t, []string{"voltage", "current"}, g.Labels())
	assert.Equal(t, []*register.Descriptor{register.PV1Voltage, register.PV1Current}, g.Registers())
}

func TestSystemClock_SleepUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SystemClock{}.SleepUntil(ctx, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSystemClock_SleepUntilPast(t *testing.T) {
	assert.NoError(t, SystemClock{}.SleepUntil(context.Background(), time.Now().Add(-time.Second)))
}
