package policy

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	prom "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDefault_RequiresSessionEverywhere(t *testing.T) {
	t.Parallel()
	p := Default()

	assert.True(t, p.RequiresSession(TodoList))
	assert.True(t, p.RequiresSession(BookingList))
	assert.True(t, p.RequiresSession("anything.else"))
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()

	p, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, p.RequiresSession(TodoList))
}

func TestLoad_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	writePolicy(t, path, "require_session:\n  todo.list: false\n")

	p, err := Load(path, nil)
	require.NoError(t, err)

	// named endpoint follows the file, unnamed falls back to required
	assert.False(t, p.RequiresSession(TodoList))
	assert.True(t, p.RequiresSession(BookingList))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "require_session: [\n"},
		{"unknown endpoint", "require_session:\n  user.delete: false\n"},
		{"wrong type", "require_session:\n  todo.list: maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			writePolicy(t, path, tt.body)
			_, err := Load(path, nil)
			assert.Error(t, err)
		})
	}

	// missing file
	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestHandleReload_KeepsLastGood(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	writePolicy(t, path, "require_session:\n  booking.list: false\n")

	m := metrics.NewMetrics(prometheus.NewRegistry())
	p, err := Load(path, m)
	require.NoError(t, err)

	// broken rewrite is rejected and counted
	writePolicy(t, path, "require_session: [\n")
	p.handleReload()
	assert.False(t, p.RequiresSession(BookingList))
	assert.Equal(t, float64(1), prom.ToFloat64(m.PolicyReloads.WithLabelValues("error")))

	// good rewrite applies
	writePolicy(t, path, "require_session:\n  booking.list: true\n")
	p.handleReload()
	assert.True(t, p.RequiresSession(BookingList))
	assert.Equal(t, float64(1), prom.ToFloat64(m.PolicyReloads.WithLabelValues("ok")))
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	writePolicy(t, path, "require_session:\n  todo.list: true\n")

	p, err := Load(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, p.Watch(ctx))

	// flipping the file flips gating
	writePolicy(t, path, "require_session:\n  todo.list: false\n")
	assert.Eventually(t, func() bool {
		return !p.RequiresSession(TodoList)
	}, 5*time.Second, 50*time.Millisecond)
}

func TestScheduleReload_Debounces(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var calls atomic.Int32
	reload := make(chan struct{})
	go scheduleReload(ctx, reload, 50*time.Millisecond, func() { calls.Add(1) })

	// a burst collapses into one callback
	for i := 0; i < 5; i++ {
		reload <- struct{}{}
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}
