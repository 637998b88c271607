package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFPSWindowEmpty(t *testing.T) {
	var w FPSWindow
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 0.0, w.Mean())
}

func TestFPSWindowPartial(t *testing.T) {
	var w FPSWindow
	w.Observe(10)
	w.Observe(20)
	w.Observe(60)

	assert.Equal(t, 3, w.Len())
	assert.InDelta(t, 30.0, w.Mean(), 1e-9)
	assert.Equal(t, []float64{10, 20, 60}, w.Samples())
}

// Mean must cover only the most recent WindowSize samples, oldest evicted first
func TestFPSWindowEviction(t *testing.T) {
	var w FPSWindow
	for i := 1; i <= 50; i++ {
		w.Observe(float64(i))
	}

	assert.Equal(t, WindowSize, w.Len())

	// Samples 11..50 remain
	assert.InDelta(t, 30.5, w.Mean(), 1e-9)
	samples := w.Samples()
	assert.Equal(t, 11.0, samples[0])
	assert.Equal(t, 50.0, samples[len(samples)-1])
}

func TestFPSWindowMatchesReferenceMean(t *testing.T) {
	var w FPSWindow
	var all []float64
	for i := 0; i < 137; i++ {
		v := float64((i*37)%91) + 0.25
		w.Observe(v)
		all = append(all, v)

		start := 0
		if len(all) > WindowSize {
			start = len(all) - WindowSize
		}
		var sum float64
		for _, s := range all[start:] {
			sum += s
		}
		want := sum / float64(len(all)-start)
		if !assert.InDelta(t, want, w.Mean(), 1e-9, "after %d samples", i+1) {
			return
		}
	}
}
