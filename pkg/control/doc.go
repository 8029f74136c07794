// Package control provides the form-control state engine: a tree of
// reactive controls that track values, interaction flags, enable state,
// and layered validation status.
//
// # Control Kinds
//
// Field is a leaf holding a single value. Group composes named child
// controls. List composes an ordered sequence of child controls. All
// three satisfy the Control interface; composites derive their value,
// interaction flags, and status from their children on every read.
//
// # Change Streams
//
// Every control exposes value-changed, structure-changed, status-changed,
// and validators-changed streams. Subscribing returns an unsubscribe
// function:
//
//	unsub := field.OnValueChange(func() {
//	    // react to the new value
//	})
//	defer unsub()
//
// Composites fan in to their children's streams and re-subscribe whenever
// their structure changes, so ancestors always observe the current child
// set.
//
// # Validation
//
// Controls carry three independent error sources: synchronous validators,
// asynchronous validators, and fixed errors set imperatively. Errors()
// reports their deduplicated union in first-occurrence order. Status()
// derives VALID, INVALID, or PENDING from the sources, and for composites
// from the children's statuses as well.
//
// Asynchronous validators run concurrently, one goroutine per validator
// per triggering change. Each triggering change starts a new generation;
// results of a superseded generation are discarded, never merged.
//
// # Threading
//
// All mutations are synchronous, non-suspending calls intended for a
// single goroutine. Asynchronous validator completions re-enter the
// engine through the host's Dispatch method when the host provides one;
// hosts that do not must serialize all access themselves.
//
// # Lifecycle
//
// Validation subscriptions are scoped to the attached lifetime: Attach
// starts them, Detach releases them, and re-attaching restarts them.
// Composites attach and detach their children with themselves.
package control
