// Package errors provides structured error reporting for the forms engine.
//
// Validation errors are not represented here: they are ordinary data
// (error codes) flowing through a control's error sources. This package
// carries engine faults — panicking validators, misbehaving adapters or
// hosts — to a pluggable handler so a buggy collaborator cannot corrupt
// control state.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of an engine fault.
type Kind int

const (
	// KindUnknown indicates a fault of unknown origin.
	KindUnknown Kind = iota
	// KindValidator indicates a fault inside a validator function.
	KindValidator
	// KindAdapter indicates a fault inside a field adapter callback.
	KindAdapter
	// KindHost indicates a fault inside a host notification hook.
	KindHost
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindValidator:
		return "validator"
	case KindAdapter:
		return "adapter"
	case KindHost:
		return "host"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FormError represents a structured fault in the forms engine.
type FormError struct {
	// Op is the operation that failed (e.g., "control.ValidateAsync").
	Op string
	// Kind categorizes the fault.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Path is the control path the fault relates to, if known.
	Path string
	// Timestamp is when the fault occurred.
	Timestamp time.Time
}

func (e *FormError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [%s] path=%s: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FormError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "control.ValidateAsync").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives faults reported by the forms engine.
type Handler interface {
	// HandleError is called when an engine fault occurs.
	HandleError(err *FormError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
