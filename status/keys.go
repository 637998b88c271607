package status

import "strconv"

// Keys published by the frame loop each frame
const (
	KeySpawnCount    = "harness.spawn_count"
	KeyTicks         = "harness.ticks"
	KeyLiveObjects   = "scene.live_objects"
	KeyClipped       = "scene.collision_clipped"
	KeyFrameTime     = "harness.frame_time"
	KeyPeakFrameTime = "harness.frame_time_peak"
	KeySmoothedFPS   = "harness.fps"
	KeySpawnAmount   = "scheduler.spawn_amount"
	KeySpawnInterval = "scheduler.spawn_interval"
	KeyTerminal      = "harness.terminal"
	KeyReported      = "harness.report_emitted"
	KeyStatusText    = "harness.status_text"
	KeyRunID         = "run.id"
	KeyOptionsTag    = "run.options"
)

// ThresholdKey names the latched spawn count gauge for an FPS threshold
func ThresholdKey(threshold int) string {
	return "threshold.fps_below_" + strconv.Itoa(threshold)
}
