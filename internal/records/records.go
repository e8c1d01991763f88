// Package records defines the typed raw-record shapes for the two person
// datasets and the loading primitives that turn a named JSON source into a
// keyed dataset.
package records

import (
	"encoding/json"
	"fmt"
)

// JoinKeySeparator joins a person name and email address into the composite
// natural key both datasets are correlated on.
const JoinKeySeparator = "|"

// JoinKey computes the composite natural key for a name/email pair. It must
// be computed identically on both sides of the join: accounts persist the
// precomputed composite, profiles derive it from their fields.
func JoinKey(name, email string) string {
	return name + JoinKeySeparator + email
}

// Account is a record from the existing-identities dataset. UserData carries
// the precomputed name|email composite; PersonID carries the person identity
// as a UUID string, parsed during the join.
type Account struct {
	UserData string `json:"userData"`
	PersonID string `json:"personId"`
}

// Key returns the account's natural key, the precomputed join composite.
func (a Account) Key() string { return a.UserData }

// Profile is a record from the external-records dataset. Fields beyond the
// join inputs are preserved in Attributes for the mapping collaborator.
type Profile struct {
	PersonName   string
	EmailAddress string
	Attributes   map[string]any
}

// Key returns the profile's natural key, derived from its name and email.
func (p Profile) Key() string { return JoinKey(p.PersonName, p.EmailAddress) }

// UnmarshalJSON decodes the known join fields and retains every other field
// in Attributes.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["personName"]; ok {
		if err := json.Unmarshal(raw, &p.PersonName); err != nil {
			return fmt.Errorf("personName: %w", err)
		}
		delete(fields, "personName")
	}
	if raw, ok := fields["emailAddress"]; ok {
		if err := json.Unmarshal(raw, &p.EmailAddress); err != nil {
			return fmt.Errorf("emailAddress: %w", err)
		}
		delete(fields, "emailAddress")
	}
	if len(fields) == 0 {
		p.Attributes = nil
		return nil
	}
	p.Attributes = make(map[string]any, len(fields))
	for name, raw := range fields {
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		p.Attributes[name] = value
	}
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON, flattening Attributes back
// alongside the join fields.
func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Attributes)+2)
	for name, value := range p.Attributes {
		out[name] = value
	}
	out["personName"] = p.PersonName
	out["emailAddress"] = p.EmailAddress
	return json.Marshal(out)
}
