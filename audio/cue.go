package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)

	ToneDuration = 180 * time.Millisecond
	ToneAttack   = 8 * time.Millisecond
	ToneRelease  = 120 * time.Millisecond

	// Final cue plays two descending notes
	FinalNoteDuration = 260 * time.Millisecond
)

// thresholdTones maps FPS thresholds to pitch, lower thresholds sound lower
var thresholdTones = map[int]float64{
	70: 880.00, // A5
	60: 739.99, // F#5
	50: 659.25, // E5
	40: 554.37, // C#5
	30: 440.00, // A4
}

const fallbackTone = 329.63 // E4

// Frequency returns the cue pitch in Hz for a threshold
func Frequency(threshold int) float64 {
	if f, ok := thresholdTones[threshold]; ok {
		return f
	}
	return fallbackTone
}

// Sink receives finished streamers for playback
type Sink interface {
	Play(s beep.Streamer)
}

// Config controls cue synthesis
type Config struct {
	Enabled    bool
	Volume     float64 // linear gain 0.0-1.0
	SampleRate beep.SampleRate
	Final      int // threshold that ends the run, gets the two-note cue
}

// DefaultConfig returns an enabled config at moderate volume
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Volume:     0.4,
		SampleRate: DefaultSampleRate,
		Final:      30,
	}
}

// CuePlayer turns threshold crossings into short tones
// Safe for use from the frame loop; playback never blocks on the device
type CuePlayer struct {
	cfg    Config
	sink   Sink
	logger *slog.Logger

	played atomic.Uint64
}

// NewCuePlayer creates a player writing to sink; a nil sink plays nothing
func NewCuePlayer(cfg Config, sink Sink, logger *slog.Logger) *CuePlayer {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CuePlayer{cfg: cfg, sink: sink, logger: logger}
}

// ThresholdCrossed plays the tone for threshold
func (p *CuePlayer) ThresholdCrossed(threshold, spawnCount int) {
	if !p.cfg.Enabled || p.sink == nil {
		return
	}
	p.sink.Play(p.Tone(threshold))
	p.played.Add(1)
	p.logger.Debug("cue played", "threshold", threshold, "spawn_count", spawnCount)
}

// Played returns the number of cues sent to the sink
func (p *CuePlayer) Played() uint64 {
	return p.played.Load()
}

// Tone builds the streamer for a threshold without playing it
func (p *CuePlayer) Tone(threshold int) beep.Streamer {
	rate := p.cfg.SampleRate
	freq := Frequency(threshold)

	if threshold == p.cfg.Final {
		first := NewEnvelope(NewOscillator(freq, FinalNoteDuration, WaveTriangle, rate),
			FinalNoteDuration, ToneAttack, ToneRelease, rate)
		second := NewEnvelope(NewOscillator(freq/2, FinalNoteDuration, WaveTriangle, rate),
			FinalNoteDuration, ToneAttack, ToneRelease, rate)
		return newVolume(beep.Seq(first, second), p.cfg.Volume)
	}

	fund := NewEnvelope(NewOscillator(freq, ToneDuration, WaveSine, rate),
		ToneDuration, ToneAttack, ToneRelease, rate)
	over := NewEnvelope(NewOscillator(freq*2, ToneDuration, WaveSine, rate),
		ToneDuration, ToneAttack, ToneRelease/2, rate)
	mixed := beep.Mix(newVolume(fund, 0.75), newVolume(over, 0.25))
	return newVolume(mixed, p.cfg.Volume)
}

// SpeakerSink plays through the system audio device via beep/speaker
type SpeakerSink struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// OpenSpeaker initializes the device; callers treat errors as "run silent"
func OpenSpeaker(rate beep.SampleRate) (*SpeakerSink, error) {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	s := &SpeakerSink{mixer: &beep.Mixer{}, initialized: true}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *SpeakerSink) Play(st beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close silences pending cues and releases the device
func (s *SpeakerSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}
