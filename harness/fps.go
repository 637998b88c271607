package harness

// WindowSize is the number of per-tick FPS samples averaged into the smoothed value
const WindowSize = 40

// FPSWindow is a fixed-capacity ring of instantaneous FPS samples
// Oldest sample is evicted first once the ring is full
type FPSWindow struct {
	samples [WindowSize]float64
	head    int // index of the oldest sample
	count   int
}

// Observe appends a sample, evicting the oldest when at capacity
func (w *FPSWindow) Observe(fps float64) {
	if w.count < WindowSize {
		w.samples[(w.head+w.count)%WindowSize] = fps
		w.count++
		return
	}

	w.samples[w.head] = fps
	w.head = (w.head + 1) % WindowSize
}

// Mean returns the arithmetic mean of the samples in the window, 0 when empty
func (w *FPSWindow) Mean() float64 {
	if w.count == 0 {
		return 0
	}
	var total float64
	for i := 0; i < w.count; i++ {
		total += w.samples[(w.head+i)%WindowSize]
	}
	return total / float64(w.count)
}

// Len returns the number of samples currently held
func (w *FPSWindow) Len() int {
	return w.count
}

// Samples returns a copy of the window contents, oldest first
func (w *FPSWindow) Samples() []float64 {
	out := make([]float64, w.count)
	for i := range out {
		out[i] = w.samples[(w.head+i)%WindowSize]
	}
	return out
}
