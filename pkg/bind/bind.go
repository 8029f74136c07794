// Package bind connects leaf controls to field adapters: external
// collaborators that translate between a control's value and a concrete
// interactive widget.
//
// The engine never touches rendering state itself. An adapter implements
// Adapter plus any of the optional interfaces it cares about; Bind wires
// the two directions and returns a cancellable Binding. Writes in either
// direction are diff-checked so a value echo cannot loop.
package bind

import (
	"fmt"
	"reflect"

	"github.com/go-drift/forms/pkg/control"
	formerrors "github.com/go-drift/forms/pkg/errors"
)

// Adapter is the minimal field adapter contract.
type Adapter interface {
	// GetValue reads the widget's current value.
	GetValue() any
	// SetValue writes a value into the widget. Called only when the
	// widget's current value differs from the control's.
	SetValue(v any)
	// RegisterOnChange installs the callback the adapter must invoke when
	// the user edits the widget.
	RegisterOnChange(fn func(v any))
}

// UIStateSetter is optionally implemented by adapters whose widget can
// reflect the enabled/disabled/readonly affordance.
type UIStateSetter interface {
	SetUIState(s control.UIState)
}

// ValiditySetter is optionally implemented by adapters whose widget can
// reflect validation status, e.g. through accessibility attributes.
type ValiditySetter interface {
	SetValidity(s control.Status)
}

// TouchRegistrar is optionally implemented by adapters that can report
// focus gain.
type TouchRegistrar interface {
	RegisterOnTouch(fn func())
}

// BlurRegistrar is optionally implemented by adapters that can report
// focus loss.
type BlurRegistrar interface {
	RegisterOnBlur(fn func())
}

// Disconnector is optionally implemented by adapters that need a teardown
// hook when the binding is released.
type Disconnector interface {
	OnDisconnect()
}

// Binding is an active connection between a leaf control and an adapter.
// A nil Binding is a valid no-op: Unbind on it does nothing, so
// unresolvable path bindings degrade silently.
type Binding struct {
	leaf    control.Leaf
	adapter Adapter
	unsubs  []func()
	bound   bool
}

// Bind connects leaf and adapter and returns the active binding.
//
// Model-to-widget: value changes push into the adapter when the adapter's
// value differs; ui-state and status changes forward through the optional
// setter interfaces. Widget-to-model: the adapter's change callback sets
// the leaf's value when it differs and marks the leaf dirty on first
// interaction; touch and blur callbacks mark their flags the same way.
func Bind(leaf control.Leaf, adapter Adapter) *Binding {
	b := &Binding{leaf: leaf, adapter: adapter, bound: true}

	adapter.RegisterOnChange(func(v any) {
		if !b.bound {
			return
		}
		if !leaf.IsDirty() {
			leaf.SetDirty(true)
		}
		if !reflect.DeepEqual(v, leaf.Value()) {
			leaf.SetValue(v)
		}
	})
	if tr, ok := adapter.(TouchRegistrar); ok {
		tr.RegisterOnTouch(func() {
			if b.bound && !leaf.IsTouched() {
				leaf.SetTouched(true)
			}
		})
	}
	if br, ok := adapter.(BlurRegistrar); ok {
		br.RegisterOnBlur(func() {
			if b.bound && !leaf.IsBlurred() {
				leaf.SetBlurred(true)
			}
		})
	}

	b.unsubs = append(b.unsubs, leaf.OnValueChange(func() {
		if v := leaf.Value(); !reflect.DeepEqual(adapter.GetValue(), v) {
			guard("bind.SetValue", func() { adapter.SetValue(v) })
		}
	}))
	if us, ok := adapter.(UIStateSetter); ok {
		push := func() {
			guard("bind.SetUIState", func() { us.SetUIState(leaf.UIState()) })
		}
		push()
		b.unsubs = append(b.unsubs, leaf.OnUIStateChange(push))
	}
	if vs, ok := adapter.(ValiditySetter); ok {
		push := func() {
			guard("bind.SetValidity", func() { vs.SetValidity(leaf.Status()) })
		}
		push()
		b.unsubs = append(b.unsubs, leaf.OnStatusChange(push))
	}

	// Seed the widget with the model value.
	if v := leaf.Value(); !reflect.DeepEqual(adapter.GetValue(), v) {
		guard("bind.SetValue", func() { adapter.SetValue(v) })
	}

	return b
}

// guard runs one adapter callback, recovering and reporting a panic as an
// adapter fault so a buggy widget cannot unwind a model notification.
func guard(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			formerrors.Report(&formerrors.FormError{
				Op:   op,
				Kind: formerrors.KindAdapter,
				Err:  fmt.Errorf("adapter panic: %v", r),
			})
		}
	}()
	fn()
}

// BindPath resolves a dotted path on a group and binds the resulting leaf.
// A missing key, a list segment, or a path ending on a composite yields a
// nil (no-op) binding — never an error. Lists must be iterated and bound
// per element by the caller.
func BindPath(g *control.Group, path string, adapter Adapter) *Binding {
	leaf := g.Lookup(path)
	if leaf == nil {
		return nil
	}
	return Bind(leaf, adapter)
}

// Unbind releases the binding's subscriptions and invokes the adapter's
// optional disconnect hook. Safe on a nil or already-released binding.
func (b *Binding) Unbind() {
	if b == nil || !b.bound {
		return
	}
	b.bound = false
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
	if d, ok := b.adapter.(Disconnector); ok {
		guard("bind.OnDisconnect", func() { d.OnDisconnect() })
	}
}

// Bound reports whether the binding is still active. A nil binding is not
// bound.
func (b *Binding) Bound() bool { return b != nil && b.bound }
