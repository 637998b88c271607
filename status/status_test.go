package status

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricMap_GetCachesPointer(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("x")
	a.Set(1.5)

	b := m.Get("x")
	assert.Same(t, a, b)
	assert.Equal(t, 1.5, b.Get())
	assert.Equal(t, 1, m.Len())

	_, ok := m.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len(), "Lookup must not register")
}

func TestMetricMap_RangeSorted(t *testing.T) {
	m := NewMetricMap[AtomicString]()
	for _, k := range []string{"c", "a", "b"} {
		m.Get(k).Store(k + k)
	}

	var keys, vals []string
	m.Range(func(key string, ptr *AtomicString) {
		keys = append(keys, key)
		vals = append(vals, ptr.Load())
	})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, []string{"aa", "bb", "cc"}, vals)
}

func TestMetricMap_ConcurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Ints.Get(KeySpawnCount).Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1600), r.Ints.Get(KeySpawnCount).Load())
	assert.Equal(t, 1, r.Ints.Len())
}

func TestAtomicFloat_Max(t *testing.T) {
	var f AtomicFloat
	assert.Equal(t, 0.0, f.Get())

	assert.Equal(t, 0.02, f.Max(0.02))
	assert.Equal(t, 0.02, f.Max(0.01))
	assert.Equal(t, 0.02, f.Max(math.NaN()))
	assert.Equal(t, 0.05, f.Max(0.05))
	assert.Equal(t, 0.05, f.Get())

	f.Set(-1)
	assert.Equal(t, -1.0, f.Get())
}

func TestAtomicString_ZeroValue(t *testing.T) {
	var s AtomicString
	require.Equal(t, "", s.Load())
	s.Store("Count: 1")
	assert.Equal(t, "Count: 1", s.Load())
}

func TestRegistry_WriteTo(t *testing.T) {
	r := NewRegistry()
	r.Bools.Get(KeyTerminal).Store(true)
	r.Ints.Get(KeySpawnCount).Store(1100)
	r.Ints.Get(KeyTicks).Store(7)
	r.Floats.Get(KeySmoothedFPS).Set(59.5)
	r.Strings.Get(KeyStatusText).Store("Count: 1100\nFPS: 59.5")

	var sb strings.Builder
	n, err := r.WriteTo(&sb)
	require.NoError(t, err)

	want := "harness.terminal true\n" +
		"harness.spawn_count 1100\n" +
		"harness.ticks 7\n" +
		"harness.fps 59.5\n" +
		"harness.status_text \"Count: 1100\\nFPS: 59.5\"\n"
	assert.Equal(t, want, sb.String())
	assert.Equal(t, int64(len(want)), n)
}

func TestThresholdKey(t *testing.T) {
	assert.Equal(t, "threshold.fps_below_70", ThresholdKey(70))
	assert.Equal(t, "threshold.fps_below_30", ThresholdKey(30))
}
