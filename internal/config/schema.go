package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// limitsSchema is the JSON Schema every limits document must satisfy.
// Structural checks live here; semantic checks (duration syntax, duplicate
// names, tier completeness) live in Config.check.
const limitsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "trackers": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "threshold": {"type": "string"}
        }
      }
    },
    "limiters": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name", "type"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "type": {"enum": ["token_bucket", "sliding_window", "priority"]},
          "maxTokens": {"type": "integer", "minimum": 1},
          "refillRate": {"type": "number", "exclusiveMinimum": 0},
          "maxRequests": {"type": "integer", "minimum": 1},
          "window": {"type": "string"},
          "tiers": {
            "type": "object",
            "additionalProperties": false,
            "properties": {
              "high": {"$ref": "#/$defs/tier"},
              "medium": {"$ref": "#/$defs/tier"},
              "low": {"$ref": "#/$defs/tier"}
            }
          }
        }
      }
    }
  },
  "$defs": {
    "tier": {
      "type": "object",
      "additionalProperties": false,
      "required": ["maxTokens", "refillRate"],
      "properties": {
        "maxTokens": {"type": "integer", "minimum": 1},
        "refillRate": {"type": "number", "exclusiveMinimum": 0}
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("limits.json", strings.NewReader(limitsSchema)); err != nil {
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	schema, err := compiler.Compile("limits.json")
	if err != nil {
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	return schema
}

// validateSchema checks canonical JSON against the embedded schema.
func validateSchema(canonical []byte) error {
	var doc interface{}
	if err := json.Unmarshal(canonical, &doc); err != nil {
		return fmt.Errorf("invalid config document: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("config failed schema validation: %w", err)
	}
	return nil
}
