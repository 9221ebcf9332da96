// Package schemas embeds the JSON Schemas for exported profile and application documents.
package schemas

import _ "embed"

// Profile is the JSON Schema for an exported profile document.
//
//go:embed profile.schema.json
var Profile string

// Applications is the JSON Schema for an exported application history document.
//
//go:embed applications.schema.json
var Applications string
