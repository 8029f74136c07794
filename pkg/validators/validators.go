// Package validators provides stock validators for the forms engine.
//
// Validators are small values satisfying control.Validator or
// control.AsyncValidator. They return an error code or the empty string;
// they never throw, and an async validator's returned error is treated as
// "no error" by the engine.
package validators

import (
	"context"
	"reflect"
	"regexp"

	"github.com/go-drift/forms/pkg/control"
)

// Error codes produced by the stock validators.
const (
	CodeRequired  control.ErrorCode = "required"
	CodeMinLength control.ErrorCode = "minLength"
	CodeMaxLength control.ErrorCode = "maxLength"
	CodePattern   control.ErrorCode = "pattern"
	CodeSchema    control.ErrorCode = "schema"
)

// Required fails with "required" when the control's value is nil, an
// empty string, or an empty collection. Zero numbers and false booleans
// are values, not absences.
func Required() control.Validator {
	return control.ValidatorFunc(func(c control.Control) control.ErrorCode {
		v := c.Value()
		if v == nil {
			return CodeRequired
		}
		if s, ok := v.(string); ok && s == "" {
			return CodeRequired
		}
		if n, ok := lengthOf(v); ok && n == 0 {
			return CodeRequired
		}
		return ""
	})
}

// MinLength fails with "minLength" when the value's length is below min.
// Values without a length are ignored.
func MinLength(min int) control.Validator {
	return control.ValidatorFunc(func(c control.Control) control.ErrorCode {
		if n, ok := lengthOf(c.Value()); ok && n < min {
			return CodeMinLength
		}
		return ""
	})
}

// MaxLength fails with "maxLength" when the value's length exceeds max.
// Values without a length are ignored.
func MaxLength(max int) control.Validator {
	return control.ValidatorFunc(func(c control.Control) control.ErrorCode {
		if n, ok := lengthOf(c.Value()); ok && n > max {
			return CodeMaxLength
		}
		return ""
	})
}

// Pattern fails with "pattern" when a string value does not match re.
// Non-string values and empty strings are ignored; combine with Required
// to reject absence.
func Pattern(re *regexp.Regexp) control.Validator {
	return control.ValidatorFunc(func(c control.Control) control.ErrorCode {
		s, ok := c.Value().(string)
		if !ok || s == "" {
			return ""
		}
		if !re.MatchString(s) {
			return CodePattern
		}
		return ""
	})
}

// Func adapts a plain function into a validator.
func Func(fn func(c control.Control) control.ErrorCode) control.Validator {
	return control.ValidatorFunc(fn)
}

// AsyncFunc adapts a plain function into an asynchronous validator.
func AsyncFunc(fn func(ctx context.Context, c control.Control) (control.ErrorCode, error)) control.AsyncValidator {
	return control.AsyncValidatorFunc(fn)
}

func lengthOf(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}
