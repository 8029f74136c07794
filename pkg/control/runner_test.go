package control

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	formerrors "github.com/go-drift/forms/pkg/errors"
)

func asyncCode(code ErrorCode) AsyncValidator {
	return AsyncValidatorFunc(func(context.Context, Control) (ErrorCode, error) {
		return code, nil
	})
}

func TestAsyncPendingThenInvalid(t *testing.T) {
	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	f.SetAsyncValidators(asyncCode("required"))
	// Async results never arrive synchronously: pending until pumped.
	require.Equal(t, StatusPending, f.Status())
	require.Empty(t, f.Errors())

	h.pump(t, 1)
	assert.Equal(t, StatusInvalid, f.Status())
	assert.Equal(t, []ErrorCode{"required"}, f.Errors())
}

func TestAsyncValidResult(t *testing.T) {
	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	f.SetAsyncValidators(asyncCode(""))
	require.Equal(t, StatusPending, f.Status())

	h.pump(t, 1)
	assert.Equal(t, StatusValid, f.Status())
	assert.Empty(t, f.Errors())
}

func TestAsyncGenerationCombines(t *testing.T) {
	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	f.SetAsyncValidators(asyncCode("first"), asyncCode(""), asyncCode("second"))
	require.Equal(t, StatusPending, f.Status())

	// The generation settles as a whole: all three must land before the
	// async source is written.
	h.pump(t, 3)
	assert.Equal(t, StatusInvalid, f.Status())
	assert.Equal(t, []ErrorCode{"first", "second"}, f.Errors())
}

func TestAsyncSupersededGenerationDiscarded(t *testing.T) {
	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	release := make(chan ErrorCode)
	started := make(chan struct{}, 1)
	f.SetAsyncValidators(AsyncValidatorFunc(func(_ context.Context, c Control) (ErrorCode, error) {
		if c.Value().(string) == "" {
			// First generation parks until the test releases it.
			started <- struct{}{}
			return <-release, nil
		}
		return "second", nil
	}))
	require.Equal(t, StatusPending, f.Status())

	// Supersede only once the first generation is parked on release, so it
	// cannot observe the new value and skip the receive.
	<-started
	f.Set("changed")
	h.pump(t, 1)
	require.Equal(t, []ErrorCode{"second"}, f.Errors())
	require.Equal(t, StatusInvalid, f.Status())

	// Let the stale generation finish; its result must be discarded.
	release <- "first"
	h.pump(t, 1)
	assert.Equal(t, []ErrorCode{"second"}, f.Errors())
	assert.Equal(t, StatusInvalid, f.Status())
}

func TestAsyncFailureFailsOpen(t *testing.T) {
	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	f.SetAsyncValidators(AsyncValidatorFunc(func(context.Context, Control) (ErrorCode, error) {
		return "ignored", errors.New("backend unreachable")
	}))
	h.pump(t, 1)

	assert.Equal(t, StatusValid, f.Status())
	assert.Empty(t, f.Errors())
}

type silentHandler struct {
	mu       sync.Mutex
	panics   int
	faults   int
	lastKind formerrors.Kind
}

func (s *silentHandler) HandleError(e *formerrors.FormError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults++
	s.lastKind = e.Kind
}

func (s *silentHandler) HandlePanic(*formerrors.PanicError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panics++
}

func (s *silentHandler) counts() (panics, faults int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panics, s.faults
}

func (s *silentHandler) kind() formerrors.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastKind
}

func TestAsyncPanicFailsOpenAndReports(t *testing.T) {
	handler := &silentHandler{}
	formerrors.SetHandler(handler)
	defer formerrors.SetHandler(nil)

	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	f.SetAsyncValidators(AsyncValidatorFunc(func(context.Context, Control) (ErrorCode, error) {
		panic("validator bug")
	}))
	h.pump(t, 1)

	assert.Equal(t, StatusValid, f.Status())
	assert.Empty(t, f.Errors())
	panics, _ := handler.counts()
	assert.Equal(t, 1, panics)
}

type panickyHost struct{}

func (panickyHost) RequestUpdate() { panic("host bug") }

func TestPanickingHostReportedAsFault(t *testing.T) {
	handler := &silentHandler{}
	formerrors.SetHandler(handler)
	defer formerrors.SetHandler(nil)

	f := NewField("")
	f.Attach(panickyHost{})

	require.NotPanics(t, func() { f.Set("x") })
	assert.Equal(t, "x", f.Get(), "the mutation must survive the host")

	_, faults := handler.counts()
	assert.Positive(t, faults)
	assert.Equal(t, formerrors.KindHost, handler.kind())
}

type panickyDispatchHost struct{ *testHost }

func (panickyDispatchHost) Dispatch(func()) { panic("dispatch bug") }

func TestPanickingDispatchReportedAsFault(t *testing.T) {
	handler := &silentHandler{}
	formerrors.SetHandler(handler)
	defer formerrors.SetHandler(nil)

	f := NewField("")
	f.Attach(panickyDispatchHost{newTestHost()})
	f.SetAsyncValidators(asyncCode("x"))

	require.Eventually(t, func() bool {
		_, faults := handler.counts()
		return faults >= 1
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, formerrors.KindHost, handler.kind())
}

func TestSyncErrorsDominatePendingAsync(t *testing.T) {
	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	f.SetValidators(ValidatorFunc(func(Control) ErrorCode { return "required" }))
	f.SetAsyncValidators(asyncCode("slow"))

	// Async still running, but the sync error wins: INVALID, not PENDING.
	assert.Equal(t, StatusInvalid, f.Status())

	h.pump(t, 1)
	assert.Equal(t, StatusInvalid, f.Status())
	assert.Equal(t, []ErrorCode{"required", "slow"}, f.Errors())
}

func TestAsyncRunsWhenDisabled(t *testing.T) {
	f := NewField("")
	f.SetUIState(UIDisabled)
	h := newTestHost()
	f.Attach(h)

	f.SetAsyncValidators(asyncCode("required"))
	require.Equal(t, StatusPending, f.Status())

	h.pump(t, 1)
	assert.Equal(t, StatusInvalid, f.Status())
}

func TestDetachDiscardsInFlightGeneration(t *testing.T) {
	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	f.SetAsyncValidators(asyncCode("late"))
	require.Equal(t, StatusPending, f.Status())

	f.Detach()
	require.Eventually(t, func() bool {
		return h.pendingDispatches() >= 1
	}, 2*time.Second, time.Millisecond)
	h.drain()

	assert.Empty(t, f.Errors(), "stale settle after detach must not write")
	assert.Equal(t, StatusValid, f.Status())
}

func TestAsyncSettleNotifiesStatusStream(t *testing.T) {
	f := NewField("")
	h := newTestHost()
	f.Attach(h)

	statusEvents := 0
	defer f.OnStatusChange(func() { statusEvents++ })()

	f.SetAsyncValidators(asyncCode("x"))
	triggered := statusEvents
	require.Positive(t, triggered)

	h.pump(t, 1)
	assert.Greater(t, statusEvents, triggered, "settle must announce status")
}
