package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrorCode identifies a validation failure, e.g. "required" or "minLength".
// The empty string means no error.
type ErrorCode string

// Status summarizes a control's validation state.
type Status int

const (
	// StatusValid means no error source holds errors and no async
	// validators are running, here or in any descendant.
	StatusValid Status = iota
	// StatusInvalid means at least one error source holds errors, or a
	// descendant is invalid.
	StatusInvalid
	// StatusPending means async validators are still running, here or in
	// a descendant, and nothing is invalid yet.
	StatusPending
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusPending:
		return "pending"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// UIState is a leaf control's interaction affordance. Composites never
// hold one; disabling is a per-leaf concern.
type UIState int

const (
	// UIEnabled means the bound widget accepts input.
	UIEnabled UIState = iota
	// UIDisabled means the bound widget rejects input and the leaf's value
	// is omitted from enabled-value reads. Validators still run.
	UIDisabled
	// UIReadonly means the bound widget displays but does not edit.
	UIReadonly
)

// String returns a human-readable representation of the ui state.
func (s UIState) String() string {
	switch s {
	case UIEnabled:
		return "enabled"
	case UIDisabled:
		return "disabled"
	case UIReadonly:
		return "readonly"
	default:
		return fmt.Sprintf("UIState(%d)", int(s))
	}
}

// Structural mutation errors reported by Group.
var (
	// ErrDuplicateKey is returned by AddControl when the key already exists.
	ErrDuplicateKey = errors.New("duplicate control key")
	// ErrMissingKey is returned by SetControl and RemoveControl when the
	// key does not exist.
	ErrMissingKey = errors.New("missing control key")
)

// Validator checks a control synchronously. It returns an error code, or
// the empty string when the control is acceptable.
type Validator interface {
	Validate(c Control) ErrorCode
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(c Control) ErrorCode

// Validate calls f.
func (f ValidatorFunc) Validate(c Control) ErrorCode { return f(c) }

// AsyncValidator checks a control asynchronously. A non-empty code marks
// the control invalid once the whole generation settles. A returned error
// counts as "no error": validation fails open so one misbehaving validator
// cannot corrupt the control's error state.
type AsyncValidator interface {
	ValidateAsync(ctx context.Context, c Control) (ErrorCode, error)
}

// AsyncValidatorFunc adapts a plain function to the AsyncValidator interface.
type AsyncValidatorFunc func(ctx context.Context, c Control) (ErrorCode, error)

// ValidateAsync calls f.
func (f AsyncValidatorFunc) ValidateAsync(ctx context.Context, c Control) (ErrorCode, error) {
	return f(ctx, c)
}

// Effect is optionally implemented by validators that maintain external
// side effects, such as declarative attributes on a widget. The engine
// calls Connected when the validator enters a control's active set and
// Disconnected when it leaves it. Active means the control is attached;
// attach, detach, and validator-set replacement all drive these hooks.
type Effect interface {
	Connected(host Host, c Control)
	Disconnected(host Host, c Control)
}

// Host receives re-render requests from the engine. RequestUpdate is
// called on every state-affecting mutation; the host decides whether and
// when to redraw. It must not fail.
type Host interface {
	RequestUpdate()
}

// DispatchHost is a Host that can marshal callbacks onto the engine's
// goroutine. Async validator completions are delivered through Dispatch
// when the host implements it; otherwise they are invoked inline and the
// host is responsible for serializing access to the tree.
type DispatchHost interface {
	Host
	Dispatch(fn func())
}

// Control is a node in the form tree: a Field, Group, or List.
type Control interface {
	// Value returns the control's semantic value. Composites derive it
	// from their children on every call.
	Value() any
	// SetValue writes the value in untyped form. Fields assert their
	// value type; a mismatch is a caller bug. Groups accept
	// map[string]any, Lists accept []any.
	SetValue(v any)
	// Reset restores defaults: a Field returns to its default value,
	// composites reset children in place. When clearStates is true the
	// dirty, touched, and blurred flags are cleared as well.
	Reset(clearStates bool)

	// Status derives the control's validation state.
	Status() Status
	// Errors returns the deduplicated union of the sync, async, and fixed
	// error sources in first-occurrence order.
	Errors() []ErrorCode
	// HasError reports whether code is present in Errors.
	HasError(code ErrorCode) bool

	// IsDirty reports whether the value was changed by interaction.
	// Composites report true when any child does.
	IsDirty() bool
	// IsTouched reports whether the control received focus.
	IsTouched() bool
	// IsBlurred reports whether the control lost focus.
	IsBlurred() bool

	// SetValidators replaces the synchronous validator set.
	SetValidators(vs ...Validator)
	// SetAsyncValidators replaces the asynchronous validator set.
	SetAsyncValidators(vs ...AsyncValidator)
	// SetFixedErrors replaces the fixed error source, independent of any
	// validator run.
	SetFixedErrors(codes ...ErrorCode)

	// Attach binds the control and its descendants to a host and starts
	// the validation subscriptions. Attaching an attached control detaches
	// it first.
	Attach(host Host)
	// Detach releases the validation subscriptions and unbinds the host.
	Detach()
	// Attached reports whether the control is currently attached.
	Attached() bool

	// OnValueChange subscribes to value changes. For composites the stream
	// fires whenever any descendant's value or structure changes. The
	// returned function unsubscribes.
	OnValueChange(fn func()) func()
	// OnStructureChange subscribes to structural changes: children added,
	// removed, or reordered, and validator-set replacement.
	OnStructureChange(fn func()) func()
	// OnStatusChange subscribes to status recomputations.
	OnStatusChange(fn func()) func()
	// OnValidatorsChange subscribes to validator-set replacements.
	OnValidatorsChange(fn func()) func()
}

// Leaf is the capability set specific to leaf controls, used by binding
// layers that do not care about the concrete value type.
type Leaf interface {
	Control

	// UIState returns the interaction affordance.
	UIState() UIState
	// SetUIState replaces the interaction affordance and notifies the
	// dedicated ui-state stream.
	SetUIState(s UIState)
	// OnUIStateChange subscribes to ui-state changes.
	OnUIStateChange(fn func()) func()

	// SetDirty, SetTouched, and SetBlurred mutate the interaction flags
	// directly. They always notify the host, even when unchanged.
	SetDirty(dirty bool)
	SetTouched(touched bool)
	SetBlurred(blurred bool)
}

// logger, when set, receives debug traces of attach, detach, and
// validation generations.
var logger *slog.Logger

// SetLogger installs a debug logger for the engine. Pass nil to disable.
func SetLogger(l *slog.Logger) { logger = l }

func debugLog(msg string, args ...any) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}
