package status

import (
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
)

// Registry is the lock-free hand-off between the frame loop and readers on other goroutines
// Writers cache metric pointers once; per-frame writes go straight to the atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// WriteTo dumps every scalar as "key value" lines grouped by kind, keys sorted
// Strings are quoted so multi-line status text stays on one line
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	var n int64
	var err error
	emit := func(key, val string) {
		if err != nil {
			return
		}
		var c int
		c, err = fmt.Fprintf(w, "%s %s\n", key, val)
		n += int64(c)
	}

	r.Bools.Range(func(k string, v *atomic.Bool) { emit(k, strconv.FormatBool(v.Load())) })
	r.Ints.Range(func(k string, v *atomic.Int64) { emit(k, strconv.FormatInt(v.Load(), 10)) })
	r.Floats.Range(func(k string, v *AtomicFloat) { emit(k, strconv.FormatFloat(v.Get(), 'g', -1, 64)) })
	r.Strings.Range(func(k string, v *AtomicString) { emit(k, strconv.Quote(v.Load())) })
	return n, err
}
