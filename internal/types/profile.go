// Package types provides type definitions for structured data used throughout the auto-apply agent.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Profile keys, in the order they are serialized and embedded into scripts.
const (
	KeyFirstName         = "firstName"
	KeyLastName          = "lastName"
	KeyEmail             = "email"
	KeyPhone             = "phone"
	KeyLinkedIn          = "linkedin"
	KeyPortfolio         = "portfolio"
	KeyCurrentCompany    = "currentCompany"
	KeyCurrentTitle      = "currentTitle"
	KeyYearsExperience   = "yearsExperience"
	KeyLocation          = "location"
	KeyWorkAuthorization = "workAuthorization"
	KeySponsorship       = "sponsorship"
)

// Work authorization options.
const (
	WorkAuthorized          = "Authorized to work"
	WorkRequiresSponsorship = "Require sponsorship"
	WorkOther               = "Other"
)

var profileKeys = []string{
	KeyFirstName,
	KeyLastName,
	KeyEmail,
	KeyPhone,
	KeyLinkedIn,
	KeyPortfolio,
	KeyCurrentCompany,
	KeyCurrentTitle,
	KeyYearsExperience,
	KeyLocation,
	KeyWorkAuthorization,
	KeySponsorship,
}

// requiredProfileKeys must be filled before a script is worth running.
var requiredProfileKeys = []string{KeyFirstName, KeyLastName, KeyEmail}

// ErrImportFailed is returned when imported profile or application JSON is rejected.
// The target is left untouched when this error is returned.
var ErrImportFailed = errors.New("import failed")

// ErrUnknownProfileKey is returned by Set for keys outside the fixed key set.
var ErrUnknownProfileKey = errors.New("unknown profile key")

// Profile holds the candidate attributes used to fill application forms.
// Keys outside the fixed set can only arrive through import; they are kept and
// re-exported but never read by script generation.
type Profile struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email" validate:"omitempty,email"`
	Phone             string `json:"phone"`
	LinkedIn          string `json:"linkedin"`
	Portfolio         string `json:"portfolio"`
	CurrentCompany    string `json:"currentCompany"`
	CurrentTitle      string `json:"currentTitle"`
	YearsExperience   string `json:"yearsExperience"`
	Location          string `json:"location"`
	WorkAuthorization string `json:"workAuthorization" validate:"omitempty,oneof='Authorized to work' 'Require sponsorship' 'Other'"`
	Sponsorship       string `json:"sponsorship" validate:"omitempty,oneof=Yes No"`

	extra map[string]json.RawMessage
}

// ProfileField is a single key/value pair of the fixed profile key set.
type ProfileField struct {
	Key   string
	Value string
}

// NewProfile returns a profile with every field empty.
func NewProfile() *Profile {
	return &Profile{}
}

// ProfileKeys returns the fixed profile keys in serialization order.
func ProfileKeys() []string {
	keys := make([]string, len(profileKeys))
	copy(keys, profileKeys)
	return keys
}

// IsProfileKey reports whether key belongs to the fixed key set.
func IsProfileKey(key string) bool {
	for _, k := range profileKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (p *Profile) field(key string) *string {
	switch key {
	case KeyFirstName:
		return &p.FirstName
	case KeyLastName:
		return &p.LastName
	case KeyEmail:
		return &p.Email
	case KeyPhone:
		return &p.Phone
	case KeyLinkedIn:
		return &p.LinkedIn
	case KeyPortfolio:
		return &p.Portfolio
	case KeyCurrentCompany:
		return &p.CurrentCompany
	case KeyCurrentTitle:
		return &p.CurrentTitle
	case KeyYearsExperience:
		return &p.YearsExperience
	case KeyLocation:
		return &p.Location
	case KeyWorkAuthorization:
		return &p.WorkAuthorization
	case KeySponsorship:
		return &p.Sponsorship
	}
	return nil
}

// Get returns the value for a fixed profile key, or "" if the key is unknown.
func (p *Profile) Get(key string) string {
	if f := p.field(key); f != nil {
		return *f
	}
	return ""
}

// Set assigns a fixed profile key.
func (p *Profile) Set(key, value string) error {
	f := p.field(key)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownProfileKey, key)
	}
	*f = value
	return nil
}

// Snapshot returns the fixed fields in serialization order.
func (p *Profile) Snapshot() []ProfileField {
	fields := make([]ProfileField, 0, len(profileKeys))
	for _, key := range profileKeys {
		fields = append(fields, ProfileField{Key: key, Value: p.Get(key)})
	}
	return fields
}

// Extra returns the unknown keys retained from import, sorted by key.
func (p *Profile) Extra() []string {
	keys := make([]string, 0, len(p.extra))
	for k := range p.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	if p.extra != nil {
		c.extra = make(map[string]json.RawMessage, len(p.extra))
		for k, v := range p.extra {
			c.extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// Reset empties every field, including retained unknown keys.
func (p *Profile) Reset() {
	for _, key := range profileKeys {
		*p.field(key) = ""
	}
	for k := range p.extra {
		p.extra[k] = json.RawMessage(`""`)
	}
}

// MissingRequired returns the required keys that are still empty, in key order.
func (p *Profile) MissingRequired() []string {
	var missing []string
	for _, key := range requiredProfileKeys {
		if p.Get(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Validate checks field formats and enumerations.
func (p *Profile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// MarshalJSON writes the fixed keys in order, followed by retained unknown keys sorted by name.
func (p Profile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
	}

	for _, key := range profileKeys {
		v, err := json.Marshal(p.Get(key))
		if err != nil {
			return nil, err
		}
		write(key, v)
	}
	for _, key := range p.Extra() {
		write(key, p.extra[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON merges a JSON object into the profile: keys present in the
// document overwrite current values, absent keys are left as they are.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("profile must be a JSON object")
	}

	for key, value := range raw {
		if f := p.field(key); f != nil {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return fmt.Errorf("profile field %q must be a string: %w", key, err)
			}
			*f = s
			continue
		}
		if p.extra == nil {
			p.extra = make(map[string]json.RawMessage)
		}
		p.extra[key] = append(json.RawMessage(nil), value...)
	}
	return nil
}
