package tool

import (
	"encoding/json"
	"fmt"
)

// ValidateInput checks a tool-call argument payload against the tool's
// parameter schema: required fields must be present and declared
// properties must match their JSON types. Unknown fields are ignored,
// matching what OpenAI-compatible servers accept.
func ValidateInput(schema map[string]interface{}, input json.RawMessage) error {
	var args map[string]interface{}
	if err := json.Unmarshal(input, &args); err != nil {
		return fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	return checkObject(schema, args)
}

func checkObject(schema map[string]interface{}, args map[string]interface{}) error {
	for _, field := range requiredFields(schema) {
		if _, ok := args[field]; !ok {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return nil
	}

	for key, value := range args {
		propSchema, ok := properties[key].(map[string]interface{})
		if !ok {
			continue
		}
		if err := checkValue(key, propSchema, value); err != nil {
			return err
		}
	}
	return nil
}

// requiredFields tolerates both []interface{} (decoded JSON) and
// []string (hand-written schemas).
func requiredFields(schema map[string]interface{}) []string {
	switch required := schema["required"].(type) {
	case []string:
		return required
	case []interface{}:
		fields := make([]string, 0, len(required))
		for _, f := range required {
			if name, ok := f.(string); ok {
				fields = append(fields, name)
			}
		}
		return fields
	default:
		return nil
	}
}

func checkValue(field string, schema map[string]interface{}, value interface{}) error {
	declaredType, ok := schema["type"].(string)
	if !ok || value == nil {
		return nil
	}

	switch declaredType {
	case "string":
		if _, ok := value.(string); !ok {
			return typeMismatch(field, "string", value)
		}
	case "number", "integer":
		if _, ok := value.(float64); !ok {
			return typeMismatch(field, "number", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return typeMismatch(field, "boolean", value)
		}
	case "array":
		items, ok := value.([]interface{})
		if !ok {
			return typeMismatch(field, "array", value)
		}
		itemSchema, ok := schema["items"].(map[string]interface{})
		if !ok {
			return nil
		}
		for i, item := range items {
			if err := checkValue(fmt.Sprintf("%s[%d]", field, i), itemSchema, item); err != nil {
				return err
			}
		}
	case "object":
		nested, ok := value.(map[string]interface{})
		if !ok {
			return typeMismatch(field, "object", value)
		}
		return checkObject(schema, nested)
	}
	return nil
}

func typeMismatch(field, want string, got interface{}) error {
	return fmt.Errorf("field %q expected %s, got %T", field, want, got)
}
