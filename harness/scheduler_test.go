package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerInitialState(t *testing.T) {
	s := NewScheduler()
	assert.Equal(t, SchedulerState{
		SpawnAmount:   1,
		SpawnInterval: 0.15,
		IntervalTimer: 0.15,
	}, s.State())
}

func TestSchedulerFirstBurst(t *testing.T) {
	s := NewScheduler()

	// Timer 0.15 -> 0.05, no burst
	assert.Equal(t, 0, s.Tick(0.1))
	st := s.State()
	assert.InDelta(t, 0.05, st.IntervalTimer, 1e-12)
	assert.InDelta(t, 1.06, st.SpawnAmount, 1e-12)
	assert.InDelta(t, 0.15-0.15*0.15, st.SpawnInterval, 1e-12)

	// Timer goes negative, burst of int(1.06) and reset to the pre-shrink interval
	prevInterval := st.SpawnInterval
	assert.Equal(t, 1, s.Tick(0.1))
	st = s.State()
	assert.InDelta(t, prevInterval, st.IntervalTimer, 1e-12)
	assert.InDelta(t, 1.12, st.SpawnAmount, 1e-12)
	assert.InDelta(t, prevInterval-prevInterval*prevInterval, st.SpawnInterval, 1e-12)
}

func TestSchedulerTruncatesBurstAmount(t *testing.T) {
	s := NewScheduler()
	s.state.SpawnAmount = 2.99
	s.state.IntervalTimer = 0

	assert.Equal(t, 2, s.Tick(0.01))
}

func TestSchedulerIntervalRecurrence(t *testing.T) {
	s := NewScheduler()
	prev := s.State().SpawnInterval
	reachedFloor := false

	for i := 0; i < 5000; i++ {
		s.Tick(0)
		cur := s.State().SpawnInterval
		require.GreaterOrEqual(t, cur, MinSpawnInterval)
		if prev > MinSpawnInterval {
			require.Less(t, cur, prev, "tick %d", i)
		} else {
			reachedFloor = true
			require.Equal(t, MinSpawnInterval, cur)
		}
		prev = cur
	}
	assert.True(t, reachedFloor)
}

func TestSchedulerAmountNonDecreasing(t *testing.T) {
	s := NewScheduler()
	deltas := []float64{0, 0.016, 0.5, 0, 0.001, 2, 0.033}

	prev := s.State().SpawnAmount
	for _, dt := range deltas {
		s.Tick(dt)
		cur := s.State().SpawnAmount
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	assert.InDelta(t, 1+2.55*SpawnAmountGrowth, prev, 1e-9)
}

// Once the interval is below the frame time every frame bursts
func TestSchedulerBurstsEveryFrameAtFloor(t *testing.T) {
	s := NewScheduler()
	for i := 0; i < 5000; i++ {
		s.Tick(0)
	}
	require.Equal(t, MinSpawnInterval, s.State().SpawnInterval)

	s.state.IntervalTimer = MinSpawnInterval
	for i := 0; i < 10; i++ {
		assert.Positive(t, s.Tick(0.016))
	}
}
