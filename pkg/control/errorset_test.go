package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorSetUnionOrderAndDedup(t *testing.T) {
	var s errorSet
	s.replaceSync([]ErrorCode{"a", "b", "a", ""})
	s.replaceAsync([]ErrorCode{"b", "c"})
	s.replaceFixed([]ErrorCode{"d", "a"})

	assert.Equal(t, []ErrorCode{"a", "b", "c", "d"}, s.codes())
	assert.True(t, s.has("a"))
	assert.True(t, s.has("d"))
	assert.False(t, s.has("x"))
}

func TestErrorSetSourcesReplaceIndependently(t *testing.T) {
	var s errorSet
	s.replaceSync([]ErrorCode{"sync"})
	s.replaceAsync([]ErrorCode{"async"})
	s.replaceFixed([]ErrorCode{"fixed"})

	s.replaceSync(nil)
	assert.Equal(t, []ErrorCode{"async", "fixed"}, s.codes())

	s.replaceAsync(nil)
	assert.Equal(t, []ErrorCode{"fixed"}, s.codes())

	s.replaceFixed(nil)
	assert.Empty(t, s.codes())
}

func TestErrorSetBlockingSources(t *testing.T) {
	var s errorSet
	assert.False(t, s.hasBlocking())

	s.replaceAsync([]ErrorCode{"async"})
	assert.False(t, s.hasBlocking(), "async errors never block pending")
	assert.True(t, s.hasAsync())

	s.replaceSync([]ErrorCode{"sync"})
	assert.True(t, s.hasBlocking())

	s.replaceSync(nil)
	s.replaceFixed([]ErrorCode{"fixed"})
	assert.True(t, s.hasBlocking())
}

func TestNotifierUnsubscribe(t *testing.T) {
	n := newNotifier()
	calls := 0
	unsub := n.addListener(func() { calls++ })
	other := n.addListener(func() {})

	n.notify()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, n.listenerCount())

	unsub()
	n.notify()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, n.listenerCount())

	other()
	assert.Zero(t, n.listenerCount())
}
