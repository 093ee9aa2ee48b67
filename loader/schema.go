package loader

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// schemaJSON is the embedded JSON Schema for lammpsys.yaml.
var schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://lammpsys.dev/schemas/config/v1",
  "title": "lammpsys configuration",
  "description": "Schema for lammpsys.yaml build configuration files.",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "source": { "type": "string", "enum": ["auto", "system", "build"] },
    "lammps": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "dir": { "type": "string", "minLength": 1 },
        "makefile": { "type": "string", "minLength": 1 },
        "machine": { "type": "string", "pattern": "^[A-Za-z0-9_][A-Za-z0-9_.-]*$" },
        "clean_script": { "type": "string", "minLength": 1 }
      }
    },
    "features": {
      "type": "array",
      "items": { "type": "string", "enum": ["exceptions", "mpi", "system-mpi"] },
      "uniqueItems": true
    },
    "packages": {
      "type": "array",
      "items": { "type": "string", "pattern": "^[a-z][a-z0-9_-]*$" }
    },
    "pkg_config": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "header": { "type": "string", "minLength": 1 }
      }
    },
    "bindings": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "package": { "type": "string", "pattern": "^[a-z][a-z0-9_]*$" },
        "output": { "type": "string", "minLength": 1 },
        "allow": { "type": "string", "minLength": 1 },
        "block": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    },
    "make": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "jobs": { "type": "integer", "minimum": 0 }
      }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	var schemaDoc interface{}
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to decode schema JSON: %v", err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add schema resource: %v", err))
	}
	var err error
	compiledSchema, err = c.Compile("schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema: %v", err))
	}
}

// SchemaJSON returns the configuration JSON Schema text.
func SchemaJSON() string {
	return schemaJSON
}

// ValidateSchema validates raw YAML bytes against the configuration schema.
func ValidateSchema(yamlData []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(yamlData, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	// an empty document is an empty config
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if err := compiledSchema.Validate(convertYAMLToJSON(raw)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// convertYAMLToJSON converts yaml.v3 values to the types the validator
// expects. Integers become float64, nested values are converted recursively.
func convertYAMLToJSON(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			result[k] = convertYAMLToJSON(val)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = convertYAMLToJSON(val)
		}
		return result
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return v
	}
}

// ValidateSchemaJSON validates a JSON document against the schema.
func ValidateSchemaJSON(jsonData []byte) error {
	var raw interface{}
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
