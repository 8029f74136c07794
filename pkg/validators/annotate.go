package validators

import (
	"context"

	"github.com/go-drift/forms/pkg/control"
)

// Annotate attaches side-effect hooks to a validator. The engine invokes
// connected when the validator enters a control's active set and
// disconnected when it leaves, letting a validator maintain declarative
// external annotations (attributes, accessibility hints) without the
// engine touching rendering state.
func Annotate(v control.Validator, connected, disconnected func(host control.Host, c control.Control)) control.Validator {
	return &annotated{v: v, connected: connected, disconnected: disconnected}
}

type annotated struct {
	v            control.Validator
	connected    func(host control.Host, c control.Control)
	disconnected func(host control.Host, c control.Control)
}

func (a *annotated) Validate(c control.Control) control.ErrorCode { return a.v.Validate(c) }

func (a *annotated) Connected(host control.Host, c control.Control) {
	if a.connected != nil {
		a.connected(host, c)
	}
}

func (a *annotated) Disconnected(host control.Host, c control.Control) {
	if a.disconnected != nil {
		a.disconnected(host, c)
	}
}

// AnnotateAsync is Annotate for asynchronous validators.
func AnnotateAsync(v control.AsyncValidator, connected, disconnected func(host control.Host, c control.Control)) control.AsyncValidator {
	return &annotatedAsync{v: v, connected: connected, disconnected: disconnected}
}

type annotatedAsync struct {
	v            control.AsyncValidator
	connected    func(host control.Host, c control.Control)
	disconnected func(host control.Host, c control.Control)
}

func (a *annotatedAsync) ValidateAsync(ctx context.Context, c control.Control) (control.ErrorCode, error) {
	return a.v.ValidateAsync(ctx, c)
}

func (a *annotatedAsync) Connected(host control.Host, c control.Control) {
	if a.connected != nil {
		a.connected(host, c)
	}
}

func (a *annotatedAsync) Disconnected(host control.Host, c control.Control) {
	if a.disconnected != nil {
		a.disconnected(host, c)
	}
}
