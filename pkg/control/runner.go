package control

import (
	"context"
	"fmt"

	formerrors "github.com/go-drift/forms/pkg/errors"
)

// runner recomputes a control's sync and async error sources whenever the
// control's value or structure changes. One runner lives per control; it
// is armed on attach and disarmed on detach.
//
// Async runs are grouped into generations. A trigger starts a new
// generation covering every async validator; the generation's combined
// result replaces the async error source only once all of its members
// have settled. A newer trigger makes the previous generation stale:
// stale settles are discarded before touching any state, so a superseded
// generation can never write partial or merged results.
//
// Runner state is only touched on the engine goroutine: triggers come
// from synchronous mutations and settles are marshaled back through the
// host's Dispatch.
type runner struct {
	b      *base
	armed  bool
	unsubs []func()

	gen int
	cur *generation
}

type generation struct {
	id       int
	pending  int
	results  []ErrorCode
	dispatch func(fn func())
}

func (r *runner) arm() {
	if r.armed {
		return
	}
	r.armed = true
	r.unsubs = []func(){
		r.b.valueChanged.addListener(r.trigger),
		r.b.structureChanged.addListener(r.trigger),
	}
	r.trigger()
}

func (r *runner) disarm() {
	if !r.armed {
		return
	}
	r.armed = false
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
	// Abandon any in-flight generation so late settles are discarded.
	r.gen++
	r.cur = nil
}

// pendingGeneration reports whether an async generation is still settling.
func (r *runner) pendingGeneration() bool { return r.cur != nil }

// trigger recomputes the sync error source and starts a fresh async
// generation. It runs synchronously inside the change notification, so
// sync errors are visible before any status read that follows the
// mutation; async results only ever arrive on a later cycle.
func (r *runner) trigger() {
	b := r.b

	var codes []ErrorCode
	for _, v := range b.validators {
		if code := v.Validate(b.owner); code != "" {
			codes = append(codes, code)
		}
	}
	b.errs.replaceSync(codes)

	r.gen++
	if len(b.asyncValidators) == 0 {
		r.cur = nil
		b.errs.replaceAsync(nil)
	} else {
		g := &generation{
			id:       r.gen,
			pending:  len(b.asyncValidators),
			results:  make([]ErrorCode, len(b.asyncValidators)),
			dispatch: r.dispatcher(),
		}
		r.cur = g
		debugLog("async generation started", "generation", g.id, "validators", g.pending)
		for i, av := range b.asyncValidators {
			go r.invoke(g, i, av)
		}
	}

	b.statusChanged.notify()
	b.requestUpdate()
}

// dispatcher captures the settle route for one generation at start time,
// so a detach that clears the host cannot race a completing validator.
func (r *runner) dispatcher() func(fn func()) {
	if d, ok := r.b.host.(DispatchHost); ok {
		return d.Dispatch
	}
	return func(fn func()) { fn() }
}

// invoke runs one async validator and marshals its settle back to the
// engine. A returned error and a recovered panic both settle as "no
// error": validation fails open. Panics are additionally reported through
// the error handler since they indicate a validator bug.
func (r *runner) invoke(g *generation, idx int, av AsyncValidator) {
	code := func() (code ErrorCode) {
		defer formerrors.RecoverWithCallback("control.ValidateAsync", func(any) {
			code = ""
		})
		c, err := av.ValidateAsync(context.Background(), r.b.owner)
		if err != nil {
			return ""
		}
		return c
	}()
	defer func() {
		if rec := recover(); rec != nil {
			formerrors.Report(&formerrors.FormError{
				Op:   "control.Dispatch",
				Kind: formerrors.KindHost,
				Err:  fmt.Errorf("host panic: %v", rec),
			})
		}
	}()
	g.dispatch(func() { r.settle(g, idx, code) })
}

func (r *runner) settle(g *generation, idx int, code ErrorCode) {
	if r.cur != g {
		return
	}
	g.results[idx] = code
	g.pending--
	if g.pending > 0 {
		return
	}

	r.cur = nil
	var codes []ErrorCode
	for _, c := range g.results {
		if c != "" {
			codes = append(codes, c)
		}
	}
	r.b.errs.replaceAsync(codes)
	debugLog("async generation settled", "generation", g.id, "errors", len(codes))
	r.b.statusChanged.notify()
	r.b.requestUpdate()
}
