package types

import (
	"encoding/json"
	"fmt"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/schemas"
)

// Merge imports a profile JSON document into p. Keys present in the document
// overwrite current values, unknown keys are retained, and absent keys keep their
// current values. On any failure p is left untouched and the returned error wraps
// ErrImportFailed.
func (p *Profile) Merge(data []byte) error {
	if err := schemas.ValidateProfile(data); err != nil {
		return fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	next := p.Clone()
	if err := json.Unmarshal(data, next); err != nil {
		return fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	*p = *next
	return nil
}

// ImportProfile builds a new profile from a JSON document. Missing keys default to "".
func ImportProfile(data []byte) (*Profile, error) {
	p := NewProfile()
	if err := p.Merge(data); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportApplications decodes and validates an application history document.
func ImportApplications(data []byte) ([]ApplicationRecord, error) {
	if err := schemas.ValidateApplications(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	var records []ApplicationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	if records == nil {
		records = []ApplicationRecord{}
	}
	return records, nil
}
