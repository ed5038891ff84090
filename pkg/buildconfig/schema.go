package buildconfig

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/config.schema.json
var configSchema string

// validateInput checks a normalized input document against the embedded
// configuration schema. Unknown top-level keys are allowed; the schema only
// constrains the keys the pipeline reads.
func validateInput(doc Doc) error {
	var schemaDoc any
	if err := json.Unmarshal([]byte(configSchema), &schemaDoc); err != nil {
		return fmt.Errorf("failed to parse embedded config schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("failed to load embedded config schema: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile embedded config schema: %w", err)
	}

	return schema.Validate(map[string]any(doc))
}
