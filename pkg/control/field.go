package control

import "sync"

// Field is a leaf control holding a single value of type T.
//
// Create one with NewField, hand it to a Group or List (which then owns
// it), or attach it directly to a host. Interaction flags and the ui
// state live on the field itself; composites only ever derive them.
type Field[T any] struct {
	base

	mu      sync.RWMutex
	value   T
	def     T
	dirty   bool
	touched bool
	blurred bool
	uiState UIState

	uiStateChanged *notifier
}

// NewField creates a detached field holding defaultValue. Reset restores
// the field to this value.
func NewField[T any](defaultValue T) *Field[T] {
	f := &Field[T]{
		value:          defaultValue,
		def:            defaultValue,
		uiStateChanged: newNotifier(),
	}
	f.init(f)
	return f
}

// Get returns the current value.
func (f *Field[T]) Get() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Default returns the value Reset restores.
func (f *Field[T]) Default() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.def
}

// Value returns the current value untyped.
func (f *Field[T]) Value() any { return f.Get() }

// Set replaces the value unconditionally: there is no equality
// short-circuit, every call notifies. Anti-loop diffing belongs at the
// adapter boundary, not here.
func (f *Field[T]) Set(value T) {
	f.mu.Lock()
	f.value = value
	f.mu.Unlock()
	f.valueChanged.notify()
	f.requestUpdate()
}

// SetValue writes an untyped value. Passing a value of the wrong type is
// a caller bug and panics.
func (f *Field[T]) SetValue(v any) { f.Set(v.(T)) }

// Reset restores the default value and, when clearStates is true, clears
// the dirty, touched, and blurred flags. It always notifies.
func (f *Field[T]) Reset(clearStates bool) {
	f.mu.Lock()
	f.value = f.def
	if clearStates {
		f.dirty = false
		f.touched = false
		f.blurred = false
	}
	f.mu.Unlock()
	f.valueChanged.notify()
	f.requestUpdate()
}

// IsDirty reports whether the value was changed by interaction.
func (f *Field[T]) IsDirty() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dirty
}

// IsTouched reports whether the field received focus.
func (f *Field[T]) IsTouched() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.touched
}

// IsBlurred reports whether the field lost focus.
func (f *Field[T]) IsBlurred() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.blurred
}

// SetDirty sets the dirty flag. Adapters are expected to call it on the
// first interaction, not on every one; the engine notifies the host
// either way.
func (f *Field[T]) SetDirty(dirty bool) {
	f.mu.Lock()
	f.dirty = dirty
	f.mu.Unlock()
	f.requestUpdate()
}

// SetTouched sets the touched flag and notifies the host.
func (f *Field[T]) SetTouched(touched bool) {
	f.mu.Lock()
	f.touched = touched
	f.mu.Unlock()
	f.requestUpdate()
}

// SetBlurred sets the blurred flag and notifies the host.
func (f *Field[T]) SetBlurred(blurred bool) {
	f.mu.Lock()
	f.blurred = blurred
	f.mu.Unlock()
	f.requestUpdate()
}

// UIState returns the interaction affordance.
func (f *Field[T]) UIState() UIState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.uiState
}

// SetUIState replaces the interaction affordance. It notifies a dedicated
// stream so widgets can react independently of value and status changes.
// Disabling never suspends validation.
func (f *Field[T]) SetUIState(s UIState) {
	f.mu.Lock()
	f.uiState = s
	f.mu.Unlock()
	f.uiStateChanged.notify()
	f.requestUpdate()
}

// OnUIStateChange subscribes to ui-state changes.
func (f *Field[T]) OnUIStateChange(fn func()) func() {
	return f.uiStateChanged.addListener(fn)
}

// Status derives the field's validation state from its own error sources:
// sync and fixed errors dominate, then a running async generation, then
// async errors.
func (f *Field[T]) Status() Status { return f.ownStatus() }

// Attach binds the field to host and starts validation. Attaching an
// attached field re-attaches it.
func (f *Field[T]) Attach(host Host) {
	if f.attached {
		f.Detach()
	}
	f.base.attach(host)
}

// Detach stops validation and unbinds the host.
func (f *Field[T]) Detach() {
	if !f.attached {
		return
	}
	f.base.detach()
}
