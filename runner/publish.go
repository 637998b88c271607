package runner

import (
	"sync/atomic"

	"github.com/lixenwraith/spawnbench/harness"
	"github.com/lixenwraith/spawnbench/status"
)

// publisher caches registry pointers so per-frame writes skip the map lookup
type publisher struct {
	spawnCount *atomic.Int64
	ticks      *atomic.Int64
	live       *atomic.Int64
	clipped    *atomic.Int64
	frameTime  *status.AtomicFloat
	peakFrame  *status.AtomicFloat
	fps        *status.AtomicFloat
	amount     *status.AtomicFloat
	interval   *status.AtomicFloat
	terminal   *atomic.Bool
	reported   *atomic.Bool
	text       *status.AtomicString
	thresholds [len(harness.Thresholds)]*atomic.Int64
}

func newPublisher(reg *status.Registry) *publisher {
	p := &publisher{
		spawnCount: reg.Ints.Get(status.KeySpawnCount),
		ticks:      reg.Ints.Get(status.KeyTicks),
		live:       reg.Ints.Get(status.KeyLiveObjects),
		clipped:    reg.Ints.Get(status.KeyClipped),
		frameTime:  reg.Floats.Get(status.KeyFrameTime),
		peakFrame:  reg.Floats.Get(status.KeyPeakFrameTime),
		fps:        reg.Floats.Get(status.KeySmoothedFPS),
		amount:     reg.Floats.Get(status.KeySpawnAmount),
		interval:   reg.Floats.Get(status.KeySpawnInterval),
		terminal:   reg.Bools.Get(status.KeyTerminal),
		reported:   reg.Bools.Get(status.KeyReported),
		text:       reg.Strings.Get(status.KeyStatusText),
	}
	for i, th := range harness.Thresholds {
		p.thresholds[i] = reg.Ints.Get(status.ThresholdKey(th))
		p.thresholds[i].Store(harness.Unset)
	}
	return p
}

func (p *publisher) publish(snap harness.Snapshot, live, clipped int) {
	p.spawnCount.Store(int64(snap.SpawnCount))
	p.ticks.Store(int64(snap.Ticks))
	p.live.Store(int64(live))
	p.clipped.Store(int64(clipped))
	p.frameTime.Set(snap.DeltaTime)
	p.peakFrame.Max(snap.DeltaTime)
	p.fps.Set(snap.SmoothedFPS)
	p.amount.Set(snap.Scheduler.SpawnAmount)
	p.interval.Set(snap.Scheduler.SpawnInterval)
	p.terminal.Store(snap.Terminal)
	p.reported.Store(snap.ReportEmitted)
	p.text.Store(snap.Status)
	for i, v := range snap.Thresholds {
		p.thresholds[i].Store(int64(v))
	}
}
