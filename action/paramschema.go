package action

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"cultivation-world-simulator/simerr"
)

// ValidateParams compiles spec.ParamSchema (if set) and validates params
// against it, the same compile-then-validate shape the teacher's registry
// package uses for tool-call payloads (registry/service.go
// validatePayloadJSONAgainstSchema). Returns nil immediately if the spec
// declares no schema.
func ValidateParams(spec Spec, params map[string]any) error {
	if len(spec.ParamSchema) == 0 {
		return nil
	}

	var schemaDoc any
	if err := json.Unmarshal(spec.ParamSchema, &schemaDoc); err != nil {
		return simerr.Wrap(fmt.Sprintf("unmarshal param schema for %s", spec.Name), err)
	}

	c := jsonschema.NewCompiler()
	resourceName := spec.Name + ".json"
	if err := c.AddResource(resourceName, schemaDoc); err != nil {
		return simerr.Wrap(fmt.Sprintf("add param schema resource for %s", spec.Name), err)
	}
	schema, err := c.Compile(resourceName)
	if err != nil {
		return simerr.Wrap(fmt.Sprintf("compile param schema for %s", spec.Name), err)
	}

	// jsonschema validates against any(map[string]any|...); round-trip
	// through JSON so numeric/string param values match what a
	// JSON-loaded schema expects (e.g. json.Number vs int).
	raw, err := json.Marshal(params)
	if err != nil {
		return simerr.Wrap(fmt.Sprintf("marshal params for %s", spec.Name), err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return simerr.Wrap(fmt.Sprintf("unmarshal params for %s", spec.Name), err)
	}

	if err := schema.Validate(doc); err != nil {
		return simerr.WithKindCause(simerr.ErrPreconditionFailed, fmt.Sprintf("params for %s failed validation", spec.Name), err)
	}
	return nil
}
