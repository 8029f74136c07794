package validators

import (
	playground "github.com/go-playground/validator/v10"

	"github.com/go-drift/forms/pkg/control"
)

// validate is the shared go-playground engine. Rule validators only call
// Var, which is safe for concurrent use.
var validate = playground.New(playground.WithRequiredStructEnabled())

// Rule validates the control's value against a go-playground/validator
// tag expression, e.g. "required,email" or "gte=18". The error code is
// the first failing tag name, so Rule("email") reports "email".
//
// A tag the engine cannot evaluate for the value's type fails open.
func Rule(tag string) control.Validator {
	return control.ValidatorFunc(func(c control.Control) (code control.ErrorCode) {
		// Var panics on malformed tag expressions; treat that as a
		// no-error result rather than letting it corrupt a sync run.
		defer func() {
			if recover() != nil {
				code = ""
			}
		}()
		err := validate.Var(c.Value(), tag)
		if err == nil {
			return ""
		}
		if verrs, ok := err.(playground.ValidationErrors); ok && len(verrs) > 0 {
			return control.ErrorCode(verrs[0].Tag())
		}
		return ""
	})
}
