package harness

import (
	"strings"
)

// Unset marks a threshold that has not been breached yet
const Unset = -1

// MinSpawnCount gates latching until load has ramped past the startup transient
const MinSpawnCount = 1000

// Thresholds are the FPS floors checked in strictly descending order
var Thresholds = [5]int{70, 60, 50, 40, 30}

// Tracker latches the spawn count at which smoothed FPS first fell below each threshold
// Fields never change once set, and at most one latches per Update
type Tracker struct {
	counts [len(Thresholds)]int
}

// NewTracker returns a tracker with every threshold unset
func NewTracker() *Tracker {
	t := &Tracker{}
	for i := range t.counts {
		t.counts[i] = Unset
	}
	return t
}

// Update examines thresholds in descending order and latches the first unset one above fps
// Returns the latched threshold, or ok=false when nothing changed
func (t *Tracker) Update(fps float64, count int) (threshold int, ok bool) {
	if count < MinSpawnCount {
		return 0, false
	}
	for i, th := range Thresholds {
		if t.counts[i] != Unset {
			continue
		}
		if fps < float64(th) {
			t.counts[i] = count
			return th, true
		}
	}
	return 0, false
}

// IsTerminal reports whether the lowest threshold has latched
func (t *Tracker) IsTerminal() bool {
	return t.counts[len(t.counts)-1] != Unset
}

// Latched returns the spawn count recorded for threshold, Unset if not breached
// Unknown thresholds also return Unset
func (t *Tracker) Latched(threshold int) int {
	for i, th := range Thresholds {
		if th == threshold {
			return t.counts[i]
		}
	}
	return Unset
}

// Snapshot returns the recorded counts in threshold order
func (t *Tracker) Snapshot() [len(Thresholds)]int {
	return t.counts
}

// Report renders one line per threshold, unset fields as -1
func (t *Tracker) Report() string {
	var b strings.Builder
	for i, th := range Thresholds {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  fps < ")
		b.WriteString(formatInt(th))
		b.WriteString(": ")
		b.WriteString(groupInt(t.counts[i]))
	}
	return b.String()
}
