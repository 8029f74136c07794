package control

import (
	"fmt"

	formerrors "github.com/go-drift/forms/pkg/errors"
)

// base carries the state shared by all three control kinds: the error
// sources, the validator sets, the change streams, the host binding, and
// the validator runner. Concrete controls embed it and point owner back
// at themselves so validators receive the full control.
type base struct {
	owner Control

	host     Host
	attached bool

	errs errorSet
	run  runner

	validators      []Validator
	asyncValidators []AsyncValidator

	valueChanged      *notifier
	structureChanged  *notifier
	statusChanged     *notifier
	validatorsChanged *notifier
}

func (b *base) init(owner Control) {
	b.owner = owner
	b.valueChanged = newNotifier()
	b.structureChanged = newNotifier()
	b.statusChanged = newNotifier()
	b.validatorsChanged = newNotifier()
	b.run.b = b
}

// requestUpdate notifies the host. A panicking host is an engine fault:
// it is recovered and reported so it cannot unwind the mutation that
// triggered the notification.
func (b *base) requestUpdate() {
	host := b.host
	if host == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			formerrors.Report(&formerrors.FormError{
				Op:   "control.RequestUpdate",
				Kind: formerrors.KindHost,
				Err:  fmt.Errorf("host panic: %v", r),
			})
		}
	}()
	host.RequestUpdate()
}

// attach binds the host and starts the validation subscriptions. Callers
// (the concrete controls) wire and attach children first so the initial
// validation run observes the full subtree.
func (b *base) attach(host Host) {
	b.host = host
	b.attached = true
	for _, v := range b.validators {
		connectEffect(v, b.host, b.owner)
	}
	for _, v := range b.asyncValidators {
		connectEffect(v, b.host, b.owner)
	}
	debugLog("control attached", "control", controlKind(b.owner))
	b.run.arm()
}

// detach releases the validation subscriptions and unbinds the host. Any
// in-flight async generation is abandoned; its settles are discarded.
func (b *base) detach() {
	b.run.disarm()
	for _, v := range b.validators {
		disconnectEffect(v, b.host, b.owner)
	}
	for _, v := range b.asyncValidators {
		disconnectEffect(v, b.host, b.owner)
	}
	debugLog("control detached", "control", controlKind(b.owner))
	b.attached = false
	b.host = nil
}

func (b *base) Attached() bool { return b.attached }

// Errors returns the deduplicated union of the three error sources.
func (b *base) Errors() []ErrorCode { return b.errs.codes() }

// HasError reports whether code is present in any error source.
func (b *base) HasError(code ErrorCode) bool { return b.errs.has(code) }

// SetFixedErrors replaces the fixed error source. Fixed errors bypass
// validators entirely and force the control invalid while present.
func (b *base) SetFixedErrors(codes ...ErrorCode) {
	b.errs.replaceFixed(codes)
	b.statusChanged.notify()
	b.requestUpdate()
}

// SetValidators replaces the synchronous validator set. The replacement
// is announced on the validators stream and, like any structural change,
// on the structure stream, which re-derives the control's errors.
func (b *base) SetValidators(vs ...Validator) {
	old := b.validators
	b.validators = vs
	if b.attached {
		for _, v := range old {
			disconnectEffect(v, b.host, b.owner)
		}
		for _, v := range vs {
			connectEffect(v, b.host, b.owner)
		}
	}
	b.validatorsChanged.notify()
	b.structureChanged.notify()
	b.requestUpdate()
}

// SetAsyncValidators replaces the asynchronous validator set. See
// SetValidators for the notification contract.
func (b *base) SetAsyncValidators(vs ...AsyncValidator) {
	old := b.asyncValidators
	b.asyncValidators = vs
	if b.attached {
		for _, v := range old {
			disconnectEffect(v, b.host, b.owner)
		}
		for _, v := range vs {
			connectEffect(v, b.host, b.owner)
		}
	}
	b.validatorsChanged.notify()
	b.structureChanged.notify()
	b.requestUpdate()
}

// ownStatus derives the status contributed by this control's own error
// sources and async runs, ignoring children. Sync and fixed errors
// dominate a pending async generation; async errors only count once no
// newer generation is running.
func (b *base) ownStatus() Status {
	if b.errs.hasBlocking() {
		return StatusInvalid
	}
	if b.run.pendingGeneration() {
		return StatusPending
	}
	if b.errs.hasAsync() {
		return StatusInvalid
	}
	return StatusValid
}

// mergeChildStatus folds children into an own status: any invalid child
// wins, then any pending child, then valid.
func mergeChildStatus(own Status, children func(yield func(Control) bool)) Status {
	if own == StatusInvalid {
		return StatusInvalid
	}
	pending := own == StatusPending
	invalid := false
	children(func(c Control) bool {
		switch c.Status() {
		case StatusInvalid:
			invalid = true
			return false
		case StatusPending:
			pending = true
		}
		return true
	})
	if invalid {
		return StatusInvalid
	}
	if pending {
		return StatusPending
	}
	return StatusValid
}

func (b *base) OnValueChange(fn func()) func()      { return b.valueChanged.addListener(fn) }
func (b *base) OnStructureChange(fn func()) func()  { return b.structureChanged.addListener(fn) }
func (b *base) OnStatusChange(fn func()) func()     { return b.statusChanged.addListener(fn) }
func (b *base) OnValidatorsChange(fn func()) func() { return b.validatorsChanged.addListener(fn) }

func connectEffect(v any, host Host, c Control) {
	if e, ok := v.(Effect); ok {
		e.Connected(host, c)
	}
}

func disconnectEffect(v any, host Host, c Control) {
	if e, ok := v.(Effect); ok {
		e.Disconnected(host, c)
	}
}

func controlKind(c Control) string {
	switch c.(type) {
	case *Group:
		return "group"
	case *List:
		return "list"
	default:
		return "field"
	}
}
