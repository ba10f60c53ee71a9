package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RefKind tells which variant a Reference holds.
type RefKind uint8

const (
	RefEmpty    RefKind = iota // no reference selected
	RefID                      // bare identity, as the API stores it
	RefResolved                // populated sub-object with a display name
)

// Reference points at another entity. The API may return either a bare ID
// string or a populated sub-object for the same field, so both are kept as
// distinct variants instead of being sniffed at every call site.
type Reference struct {
	kind RefKind
	id   string
	name string
}

// ByID builds an unresolved reference. An empty id yields the empty reference.
func ByID(id string) Reference {
	if id == "" {
		return Reference{}
	}
	return Reference{kind: RefID, id: id}
}

// Resolved builds a reference that already carries its display name.
func Resolved(id, name string) Reference {
	if id == "" && name == "" {
		return Reference{}
	}
	return Reference{kind: RefResolved, id: id, name: name}
}

func (r Reference) Kind() RefKind { return r.kind }

// ID returns the referenced identity, or "" for the empty reference.
func (r Reference) ID() string { return r.id }

// Name returns the display name carried by a resolved reference.
func (r Reference) Name() string { return r.name }

func (r Reference) IsZero() bool { return r.kind == RefEmpty }

func (r Reference) String() string {
	switch r.kind {
	case RefID:
		return r.id
	case RefResolved:
		return fmt.Sprintf("%s (%s)", r.name, r.id)
	default:
		return ""
	}
}

// refObject is the populated shape, e.g. {"_id": "a1", "name": "Burna"} or {"_id": "x", "title": "Love"}.
type refObject struct {
	MongoID json.RawMessage `json:"_id"`
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Title   string          `json:"title"`
}

// UnmarshalJSON accepts a string, a populated object, or null. Numeric ids
// are kept as their text.
func (r *Reference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Reference{}
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = ByID(id)
		return nil
	case '{':
		var obj refObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		id := identityText(obj.MongoID)
		if id == "" {
			id = identityText(obj.ID)
		}
		name := obj.Name
		if name == "" {
			name = obj.Title
		}
		*r = Resolved(id, name)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*r = ByID(n.String())
		return nil
	default:
		return fmt.Errorf("reference must be a string, a number or an object, got %s", string(data))
	}
}

// MarshalJSON always writes the bare identity so a reference can never leak
// onto the wire as a sub-object.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.id)
}
