// Package schemas provides JSON Schema validation for the structured text the
// editor accepts: hand-edited stage lists and model-drafted stages.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed stages.schema.json
var stagesSchema string

//go:embed draft.schema.json
var draftSchema string

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %s: %s", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Summary returns the first problem on one line, for status bars.
func (ve *ValidationError) Summary() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	first := ve.Errors[0]
	msg := fmt.Sprintf("%s: %s", first.Field, first.Message)
	if extra := len(ve.Errors) - 1; extra > 0 {
		msg += fmt.Sprintf(" (+%d more)", extra)
	}
	return msg
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validator checks JSON documents against one compiled schema.
type Validator struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses schema content once so it can validate many documents.
func Compile(name, content string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	return &Validator{name: name, schema: schema}, nil
}

// Stages returns the validator for the editable stage list.
func Stages() *Validator {
	return mustCompile("stages", stagesSchema)
}

// Draft returns the validator for drafted stage responses.
func Draft() *Validator {
	return mustCompile("draft", draftSchema)
}

func mustCompile(name, content string) *Validator {
	v, err := Compile(name, content)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks already well-formed JSON. Syntax errors surface as a plain
// error from the loader, schema violations as *ValidationError.
func (v *Validator) Validate(data []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate against %s schema: %w", v.name, err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
