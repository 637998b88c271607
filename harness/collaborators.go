package harness

import (
	"github.com/lixenwraith/spawnbench/options"
	"github.com/lixenwraith/spawnbench/vmath"
)

// Handle identifies a spawned object; the controller never inspects it
type Handle uint64

// SpawnRequest carries everything the spawner needs to create one object
type SpawnRequest struct {
	Position        vmath.Vec3F
	BehaviorEnabled bool
	Shape           options.Shape
	Lit             bool
}

// Spawner creates objects in the scene
type Spawner interface {
	Spawn(req SpawnRequest) (Handle, error)
}

// Report is the final result of a run, emitted once on termination
type Report struct {
	Tag        string
	Options    options.Options
	Thresholds [len(Thresholds)]int // spawn count per threshold, Unset if never breached
	Body       string               // rendered text: options summary, blank line, stats
	Ticks      int
	SpawnCount int
}

// Reporter persists the final report
type Reporter interface {
	Emit(r Report) error
}

// Cue is notified whenever a threshold latches
type Cue interface {
	ThresholdCrossed(threshold, spawnCount int)
}

// SpawnerFunc adapts a function to Spawner
type SpawnerFunc func(req SpawnRequest) (Handle, error)

func (f SpawnerFunc) Spawn(req SpawnRequest) (Handle, error) {
	return f(req)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(r Report) error

func (f ReporterFunc) Emit(r Report) error {
	return f(r)
}
