package config

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
)

// configSchema constrains externally supplied configuration files before the
// pattern expressions are ever compiled, so a malformed file fails loudly at
// startup with a pointer to the offending key.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "patterns": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "additionalProperties": false,
          "required": ["name", "expr"],
          "properties": {
            "name":  {"type": "string", "minLength": 1},
            "expr":  {"type": "string", "minLength": 1},
            "group": {"type": "integer", "minimum": 0}
          }
        }
      }
    },
    "currency_symbols": {
      "type": "object",
      "additionalProperties": {"type": "string", "pattern": "^[A-Z]{3}$"}
    },
    "scoring": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "floor": {"type": "number", "minimum": 0, "maximum": 1}
      }
    },
    "weights": {
      "type": "object",
      "additionalProperties": {"type": "number", "minimum": 0}
    },
    "thresholds": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "document": {"type": "number", "minimum": 0, "maximum": 1},
        "fields": {
          "type": "object",
          "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("engine-config.json", configSchema)

func validateSchema(jsonBytes []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(jsonBytes))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return common.NewAppError("CONFIG_ERROR", "decode config", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return common.NewAppError("CONFIG_ERROR", "config schema validation", err)
	}
	return nil
}
