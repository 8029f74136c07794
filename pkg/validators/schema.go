package validators

import (
	json "github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/go-drift/forms/pkg/control"
)

// Schema validates the control's JSON value snapshot against a JSON
// Schema document, failing with "schema" on any violation. Intended for
// cross-field rules on groups and lists that are easier to state as a
// schema than as code.
//
// The schema is compiled once. A schema that does not compile is a
// programmer error and is returned to the caller.
func Schema(schemaJSON string) (control.Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, err
	}
	return control.ValidatorFunc(func(c control.Control) control.ErrorCode {
		doc, err := json.Marshal(c.Value())
		if err != nil {
			return ""
		}
		result, err := compiled.Validate(gojsonschema.NewBytesLoader(doc))
		if err != nil {
			return ""
		}
		if !result.Valid() {
			return CodeSchema
		}
		return ""
	}), nil
}

// MustSchema is Schema but panics on a schema that does not compile. Use
// it for schema literals.
func MustSchema(schemaJSON string) control.Validator {
	v, err := Schema(schemaJSON)
	if err != nil {
		panic(err)
	}
	return v
}
