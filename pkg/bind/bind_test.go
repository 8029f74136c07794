package bind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/forms/pkg/control"
	formerrors "github.com/go-drift/forms/pkg/errors"
)

// fakeAdapter simulates a widget: it stores a value and records every
// write the engine performs.
type fakeAdapter struct {
	value        any
	setCalls     int
	onChange     func(v any)
	onTouch      func()
	onBlur       func()
	uiStates     []control.UIState
	validities   []control.Status
	disconnected bool
}

func (a *fakeAdapter) GetValue() any { return a.value }

func (a *fakeAdapter) SetValue(v any) {
	a.value = v
	a.setCalls++
}

func (a *fakeAdapter) RegisterOnChange(fn func(v any)) { a.onChange = fn }
func (a *fakeAdapter) RegisterOnTouch(fn func())       { a.onTouch = fn }
func (a *fakeAdapter) RegisterOnBlur(fn func())        { a.onBlur = fn }

func (a *fakeAdapter) SetUIState(s control.UIState) { a.uiStates = append(a.uiStates, s) }
func (a *fakeAdapter) SetValidity(s control.Status) { a.validities = append(a.validities, s) }
func (a *fakeAdapter) OnDisconnect()                { a.disconnected = true }

// edit simulates a user interaction with the widget.
func (a *fakeAdapter) edit(v any) {
	a.value = v
	a.onChange(v)
}

func TestBindSeedsWidget(t *testing.T) {
	leaf := control.NewField("model")
	adapter := &fakeAdapter{value: ""}

	b := Bind(leaf, adapter)
	defer b.Unbind()

	assert.Equal(t, "model", adapter.value)
	assert.Equal(t, 1, adapter.setCalls)
}

func TestBindModelToWidgetDiffChecked(t *testing.T) {
	leaf := control.NewField("same")
	adapter := &fakeAdapter{value: "same"}
	b := Bind(leaf, adapter)
	defer b.Unbind()

	require.Zero(t, adapter.setCalls, "equal values are not rewritten")

	leaf.Set("changed")
	assert.Equal(t, 1, adapter.setCalls)
	assert.Equal(t, "changed", adapter.value)

	// The adapter already holds the value; the engine must not echo it.
	leaf.Set("changed")
	assert.Equal(t, 1, adapter.setCalls)
}

func TestBindWidgetToModel(t *testing.T) {
	leaf := control.NewField("")
	adapter := &fakeAdapter{value: ""}
	b := Bind(leaf, adapter)
	defer b.Unbind()

	adapter.edit("typed")
	assert.Equal(t, "typed", leaf.Get())
	assert.True(t, leaf.IsDirty(), "first interaction marks dirty")

	// The model write must not loop back into the widget.
	assert.Zero(t, adapter.setCalls)
}

func TestBindTouchAndBlur(t *testing.T) {
	leaf := control.NewField("")
	adapter := &fakeAdapter{}
	b := Bind(leaf, adapter)
	defer b.Unbind()

	require.NotNil(t, adapter.onTouch)
	require.NotNil(t, adapter.onBlur)

	adapter.onTouch()
	adapter.onBlur()
	assert.True(t, leaf.IsTouched())
	assert.True(t, leaf.IsBlurred())
}

func TestBindForwardsUIStateAndValidity(t *testing.T) {
	leaf := control.NewField("")
	adapter := &fakeAdapter{}
	b := Bind(leaf, adapter)
	defer b.Unbind()

	// Both are pushed once at bind time.
	require.Equal(t, []control.UIState{control.UIEnabled}, adapter.uiStates)
	require.Equal(t, []control.Status{control.StatusValid}, adapter.validities)

	leaf.SetUIState(control.UIReadonly)
	assert.Equal(t, control.UIReadonly, adapter.uiStates[len(adapter.uiStates)-1])

	leaf.SetFixedErrors("bad")
	assert.Equal(t, control.StatusInvalid, adapter.validities[len(adapter.validities)-1])
}

func TestUnbindStopsPropagation(t *testing.T) {
	leaf := control.NewField("")
	adapter := &fakeAdapter{}
	b := Bind(leaf, adapter)
	require.True(t, b.Bound())

	b.Unbind()
	assert.False(t, b.Bound())
	assert.True(t, adapter.disconnected)

	before := adapter.setCalls
	leaf.Set("after unbind")
	assert.Equal(t, before, adapter.setCalls)

	adapter.edit("stale widget event")
	assert.Equal(t, "after unbind", leaf.Get(), "stale adapter callbacks are ignored")

	b.Unbind() // idempotent
}

func TestBindPath(t *testing.T) {
	street := control.NewField("")
	g := control.NewGroup(map[string]control.Control{
		"address": control.NewGroup(map[string]control.Control{"street": street}),
		"tags":    control.NewList(),
	})

	adapter := &fakeAdapter{}
	b := BindPath(g, "address.street", adapter)
	require.True(t, b.Bound())
	adapter.edit("Main St")
	assert.Equal(t, "Main St", street.Get())
	b.Unbind()

	assert.False(t, BindPath(g, "missing", &fakeAdapter{}).Bound())
	assert.False(t, BindPath(g, "tags", &fakeAdapter{}).Bound())
	assert.False(t, BindPath(g, "address", &fakeAdapter{}).Bound())

	// A nil binding is a safe no-op.
	BindPath(g, "missing", &fakeAdapter{}).Unbind()
}

type faultRecorder struct {
	faults []*formerrors.FormError
}

func (r *faultRecorder) HandleError(e *formerrors.FormError) { r.faults = append(r.faults, e) }
func (r *faultRecorder) HandlePanic(*formerrors.PanicError)  {}

// brokenAdapter is a fakeAdapter whose widget writes blow up.
type brokenAdapter struct{ fakeAdapter }

func (a *brokenAdapter) SetValue(any) { panic("widget bug") }

func TestPanickingAdapterReportedAsFault(t *testing.T) {
	recorder := &faultRecorder{}
	formerrors.SetHandler(recorder)
	defer formerrors.SetHandler(nil)

	leaf := control.NewField("model")
	adapter := &brokenAdapter{}

	var b *Binding
	require.NotPanics(t, func() { b = Bind(leaf, adapter) }, "seeding must survive the widget")
	defer b.Unbind()
	require.Len(t, recorder.faults, 1)
	assert.Equal(t, formerrors.KindAdapter, recorder.faults[0].Kind)

	// A model write pushing into the broken widget is recovered too, and
	// the model keeps its value.
	require.NotPanics(t, func() { leaf.Set("changed") })
	assert.Equal(t, "changed", leaf.Get())
	require.Len(t, recorder.faults, 2)
	assert.Equal(t, "bind.SetValue", recorder.faults[1].Op)
}
