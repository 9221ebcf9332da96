// Package rendering renders platform auto-fill scripts from field map specs.
package rendering

import "fmt"

// TemplateError is returned when the script template cannot be loaded, parsed
// or executed.
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string { return describe("template error", e.Message, e.Cause) }

func (e *TemplateError) Unwrap() error { return e.Cause }

// RenderError is returned when a field map spec cannot be turned into template data,
// e.g. a mapping that references an unknown profile key.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string { return describe("render error", e.Message, e.Cause) }

func (e *RenderError) Unwrap() error { return e.Cause }

func describe(prefix, msg string, cause error) string {
	if cause == nil {
		return prefix + ": " + msg
	}
	return fmt.Sprintf("%s: %s: %v", prefix, msg, cause)
}
