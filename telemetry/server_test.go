package telemetry

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/spawnbench/harness"
	"github.com/lixenwraith/spawnbench/status"
)

func newTestServer(t *testing.T) (*Server, *status.Registry) {
	t.Helper()
	reg := status.NewRegistry()
	srv, err := NewServer(Config{Status: reg})
	require.NoError(t, err)
	return srv, reg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewServerRequiresRegistry(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	w := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestStatusText(t *testing.T) {
	srv, reg := newTestServer(t)
	text := "Count: 1,100\nFrame Time: 0.0154\nFPS: 65.0\n\n  fps < 70: 1,100"
	reg.Strings.Get(status.KeyStatusText).Store(text)

	w := get(t, srv, "/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, text, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestVarsDump(t *testing.T) {
	srv, reg := newTestServer(t)
	reg.Ints.Get(status.KeySpawnCount).Store(42)
	reg.Strings.Get(status.KeyRunID).Store("run-1")

	w := get(t, srv, "/vars")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "harness.spawn_count 42\n")
	assert.Contains(t, body, "run.id \"run-1\"\n")
	assert.Contains(t, body, status.ThresholdKey(70)+" 0\n")
}

func TestMetricsReflectRegistry(t *testing.T) {
	srv, reg := newTestServer(t)
	reg.Ints.Get(status.KeySpawnCount).Store(1100)
	reg.Ints.Get(status.KeyTicks).Store(42)
	reg.Floats.Get(status.KeySmoothedFPS).Set(65.5)
	reg.Bools.Get(status.KeyTerminal).Store(true)
	reg.Ints.Get(status.KeyClipped).Store(3)
	for _, th := range harness.Thresholds {
		reg.Ints.Get(status.ThresholdKey(th)).Store(harness.Unset)
	}
	reg.Ints.Get(status.ThresholdKey(70)).Store(1100)

	w := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "spawnbench_spawn_count 1100")
	assert.Contains(t, body, "spawnbench_ticks_total 42")
	assert.Contains(t, body, "spawnbench_fps 65.5")
	assert.Contains(t, body, "spawnbench_terminal 1")
	assert.Contains(t, body, "spawnbench_collision_clipped 3")
	assert.Contains(t, body, "spawnbench_report_emitted 0")
	assert.Contains(t, body, `spawnbench_threshold_spawn_count{fps_below="70"} 1100`)
	assert.Contains(t, body, `spawnbench_threshold_spawn_count{fps_below="30"} -1`)

	// Live values, not a snapshot taken at registration
	reg.Ints.Get(status.KeySpawnCount).Store(2000)
	assert.Contains(t, get(t, srv, "/metrics").Body.String(), "spawnbench_spawn_count 2000")
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, reg := newTestServer(t)
	reg.Strings.Get(status.KeyStatusText).Store("Count: 7")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/status")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "Count: 7", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
