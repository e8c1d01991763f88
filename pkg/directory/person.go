// Package directory answers "given a person identity, return the matching
// person record(s)" by lazily joining two independently-maintained datasets
// at first read and serving every subsequent lookup from a memoized index.
package directory

import (
	"encoding/json"

	"github.com/google/uuid"
)

// PersonData describes the fields required to construct a Person facade. The
// join hands the mapping collaborator a PersonData carrying the identity
// parsed from the account side; the mapper fills in the rest.
type PersonData struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Attributes map[string]any
}

// Person exposes read-only person metadata resolved by the directory. Values
// are immutable once constructed.
type Person interface {
	ID() uuid.UUID
	Name() string
	Email() string
	Attributes() map[string]any
}

type person struct {
	id         uuid.UUID
	name       string
	email      string
	attributes map[string]any
}

// NewPerson constructs a read-only Person facade.
func NewPerson(data PersonData) Person {
	return person{
		id:         data.ID,
		name:       data.Name,
		email:      data.Email,
		attributes: cloneAttributes(data.Attributes),
	}
}

func (p person) ID() uuid.UUID { return p.id }
func (p person) Name() string  { return p.name }
func (p person) Email() string { return p.email }
func (p person) Attributes() map[string]any {
	return cloneAttributes(p.attributes)
}

func (p person) MarshalJSON() ([]byte, error) {
	type personJSON struct {
		ID         uuid.UUID      `json:"id"`
		Name       string         `json:"name"`
		Email      string         `json:"email"`
		Attributes map[string]any `json:"attributes,omitempty"`
	}
	return json.Marshal(personJSON{
		ID:         p.id,
		Name:       p.name,
		Email:      p.email,
		Attributes: cloneAttributes(p.attributes),
	})
}

func cloneAttributes(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = deepClone(v)
	}
	return out
}

// deepClone performs a best-effort recursive clone of common container shapes
// (map[string]any, []any, []string) to harden immutability of facade values
// returned to callers. Values that are not recognized containers (numbers,
// bools, strings, time.Time, etc.) are returned as-is. The cloning
// intentionally does not try to handle cycles; decoded JSON attributes are
// acyclic.
func deepClone(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		if len(tv) == 0 {
			return map[string]any{}
		}
		m := make(map[string]any, len(tv))
		for k, vv := range tv {
			m[k] = deepClone(vv)
		}
		return m
	case []any:
		if len(tv) == 0 {
			return []any{}
		}
		s := make([]any, len(tv))
		for i, vv := range tv {
			s[i] = deepClone(vv)
		}
		return s
	case []string:
		if len(tv) == 0 {
			return []string{}
		}
		s := make([]string, len(tv))
		copy(s, tv)
		return s
	default:
		return v
	}
}
