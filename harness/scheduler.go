package harness

// Scheduler tuning
const (
	InitialSpawnAmount   = 1.0
	InitialSpawnInterval = 0.15
	SpawnAmountGrowth    = 0.6 // spawns per burst added per second of run time
	MinSpawnInterval     = 0.001
)

// SchedulerState is the inspectable state of the load scheduler
type SchedulerState struct {
	SpawnAmount   float64 // spawn requests per burst, fraction dropped at burst time
	SpawnInterval float64 // seconds between bursts
	IntervalTimer float64 // seconds until the next burst
}

// Scheduler decides how many objects to request each tick
// Burst size grows linearly with elapsed time while the burst interval decays as x-x², floored
type Scheduler struct {
	state SchedulerState
}

// NewScheduler returns a scheduler in its initial state
func NewScheduler() *Scheduler {
	return &Scheduler{
		state: SchedulerState{
			SpawnAmount:   InitialSpawnAmount,
			SpawnInterval: InitialSpawnInterval,
			IntervalTimer: InitialSpawnInterval,
		},
	}
}

// Tick advances timers by dt seconds and returns the spawn request count for this tick
func (s *Scheduler) Tick(dt float64) int {
	st := &s.state

	requests := 0
	st.IntervalTimer -= dt
	if st.IntervalTimer < 0 {
		// Burst amount is a loop bound; the fractional part is truncated, never rounded
		requests = int(st.SpawnAmount)
		st.IntervalTimer = st.SpawnInterval
	}

	st.SpawnAmount += dt * SpawnAmountGrowth
	st.SpawnInterval -= st.SpawnInterval * st.SpawnInterval
	if st.SpawnInterval < MinSpawnInterval {
		st.SpawnInterval = MinSpawnInterval
	}

	return requests
}

// State returns a copy of the current scheduler state
func (s *Scheduler) State() SchedulerState {
	return s.state
}
