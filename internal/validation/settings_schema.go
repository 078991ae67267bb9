package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid     = errors.New("settings schema invalid")
	ErrSettingsViolation = errors.New("settings do not match schema")
)

// Issue is one schema violation at a JSON pointer location.
type Issue struct {
	Location string
	Message  string
}

// SettingsError lists every violation found in a settings document.
type SettingsError struct {
	Issues []Issue
	Cause  error
}

func (e *SettingsError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSettingsViolation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, "; ")
}

func (e *SettingsError) Unwrap() error {
	return ErrSettingsViolation
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	if !strings.HasPrefix(location, "#") {
		location = "#" + location
	}
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// Validator compiles settings schemas once per key and validates documents
// against them.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewValidator constructs an empty validator.
func NewValidator() *Validator {
	return &Validator{compiled: make(map[string]*jsonschema.Schema)}
}

// Validate checks settings against schema. key identifies the schema for
// caching; an empty key skips the cache. A nil or empty schema accepts anything.
func (v *Validator) Validate(key string, schema, settings map[string]any) error {
	normalized := NormalizeSchema(schema)
	if normalized == nil {
		return nil
	}
	compiled, err := v.compile(key, normalized)
	if err != nil {
		return err
	}
	instance, err := jsonInstance(settings)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsViolation, err)
	}
	if err := compiled.Validate(instance); err != nil {
		return &SettingsError{Issues: Issues(err), Cause: err}
	}
	return nil
}

func (v *Validator) compile(key string, schema map[string]any) (*jsonschema.Schema, error) {
	if key != "" {
		v.mu.Lock()
		defer v.mu.Unlock()
		if compiled, ok := v.compiled[key]; ok {
			return compiled, nil
		}
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if key != "" {
		v.compiled[key] = compiled
	}
	return compiled, nil
}

// Issues flattens a validation error into leaf violations.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var settingsErr *SettingsError
	if errors.As(err, &settingsErr) && settingsErr != nil {
		return settingsErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return []Issue{{Message: err.Error()}}
	}
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}

// NormalizeSchema accepts a JSON Schema document or the shorthand
// {"fields": [{"name": "title", "type": "string", "required": true}]}.
func NormalizeSchema(schema map[string]any) map[string]any {
	if len(schema) == 0 {
		return nil
	}
	for _, key := range []string{"$schema", "type", "properties", "oneOf", "anyOf", "allOf"} {
		if _, ok := schema[key]; ok {
			return schema
		}
	}
	fields, ok := schema["fields"].([]any)
	if !ok {
		return nil
	}
	properties := make(map[string]any)
	var required []string
	for _, entry := range fields {
		field, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := field["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		property := map[string]any{}
		if fieldType, ok := field["type"].(string); ok && fieldType != "" {
			property["type"] = strings.ToLower(strings.TrimSpace(fieldType))
		}
		properties[name] = property
		if flag, _ := field["required"].(bool); flag {
			required = append(required, name)
		}
	}
	if len(properties) == 0 {
		return nil
	}
	normalized := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		normalized["required"] = required
	}
	return normalized
}

// jsonInstance round-trips settings through JSON so Go numeric types reach
// the validator as json.Number.
func jsonInstance(settings map[string]any) (any, error) {
	if settings == nil {
		settings = map[string]any{}
	}
	encoded, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("settings.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("settings.json")
}
