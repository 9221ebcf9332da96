// Package schemas provides JSON Schema validation for imported profile and application documents.
package schemas

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/eshwarrathod01/resume-auto-apply-agent/schemas"
)

// Document kinds that can be validated by name.
const (
	KindProfile      = "profile"
	KindApplications = "applications"
)

// FieldError is one schema violation. Field is "(root)" for document-level errors.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	lines := make([]string, 0, len(ve.Errors)+1)
	lines = append(lines, "validation failed:")
	for i, fe := range ve.Errors {
		lines = append(lines, fmt.Sprintf("  %d. %s: %s", i+1, fe.Field, fe.Message))
	}
	return strings.Join(lines, "\n") + "\n"
}

// SchemaLoadError is returned when the schema cannot be compiled or the
// document is not parseable JSON.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	msg := fmt.Sprintf("schema %s: %s", e.Path, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SchemaLoadError) Unwrap() error { return e.Cause }

// The embedded schemas are compiled on first use and shared afterwards.
var (
	profileSchema      = sync.OnceValues(func() (*gojsonschema.Schema, error) { return compile("profile.schema.json", embedded.Profile) })
	applicationsSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return compile("applications.schema.json", embedded.Applications)
	})
)

// ValidateProfile validates a profile document against the embedded profile schema.
func ValidateProfile(data []byte) error {
	return validateWith("profile.schema.json", profileSchema, data)
}

// ValidateApplications validates an application history document against the embedded schema.
func ValidateApplications(data []byte) error {
	return validateWith("applications.schema.json", applicationsSchema, data)
}

// ValidateFile validates a JSON file on disk against the schema for kind.
func ValidateFile(kind, jsonPath string) error {
	var check func([]byte) error
	switch kind {
	case KindProfile:
		check = ValidateProfile
	case KindApplications:
		check = ValidateApplications
	default:
		return fmt.Errorf("unknown document kind %q (want %s or %s)", kind, KindProfile, KindApplications)
	}

	data, err := os.ReadFile(jsonPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return check(data)
}

// ValidateJSONString validates jsonContent against an ad hoc schema.
func ValidateJSONString(schemaContent, jsonContent string) error {
	const name = "(string schema)"
	return validateWith(name, func() (*gojsonschema.Schema, error) {
		return compile(name, schemaContent)
	}, []byte(jsonContent))
}

func compile(name, content string) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	return schema, nil
}

func validateWith(name string, load func() (*gojsonschema.Schema, error), document []byte) error {
	schema, err := load()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "document is not valid JSON", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	violations := result.Errors()
	ve := &ValidationError{Errors: make([]FieldError, 0, len(violations))}
	for _, desc := range violations {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
