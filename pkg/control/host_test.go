package control

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testHost records update requests and queues async settles so tests can
// pump them deterministically.
type testHost struct {
	mu      sync.Mutex
	queue   []func()
	updates int
}

func newTestHost() *testHost { return &testHost{} }

func (h *testHost) RequestUpdate() {
	h.mu.Lock()
	h.updates++
	h.mu.Unlock()
}

func (h *testHost) Dispatch(fn func()) {
	h.mu.Lock()
	h.queue = append(h.queue, fn)
	h.mu.Unlock()
}

func (h *testHost) updateCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.updates
}

func (h *testHost) pendingDispatches() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// drain runs every queued settle on the calling goroutine.
func (h *testHost) drain() {
	h.mu.Lock()
	queue := h.queue
	h.queue = nil
	h.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

// pump waits for at least n settles to arrive, then runs them.
func (h *testHost) pump(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.pendingDispatches() >= n
	}, 2*time.Second, time.Millisecond, "expected %d async settles", n)
	h.drain()
}
