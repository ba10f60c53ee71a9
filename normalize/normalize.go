// Package normalize converts between the working models edited in forms and
// the canonical payloads the catalog API accepts.
//
// Forward conversion (ToPayload) reduces every reference to a bare ID and
// replaces empty optional strings with nil, which the encoder omits. Reverse
// conversion (the *FormFrom functions) resolves reference IDs to display names
// through Lookups and never fails on a lookup miss.
package normalize

import (
	"errors"
	"strings"

	"catalogadmin/model"
)

// ErrMissingIdentity is returned when an entity fetched from the API has no id.
var ErrMissingIdentity = errors.New("entity is missing its identity")

// Placeholders shown when a reference id is not in the loaded lookup collection.
const (
	UnknownArtist = "Unknown Artist"
	UnknownGenre  = "Unknown Genre"
	UnknownUser   = "Unknown User"
	UnknownAlbum  = ""
)

// Form is a working model that can produce its canonical payload.
type Form[P any] interface {
	ToPayload() P
}

// optional maps blank input to nil so the field is left out of the payload.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// refID reduces a reference to its identity. An empty reference stays empty.
func refID(r model.Reference) string {
	switch r.Kind() {
	case model.RefID, model.RefResolved:
		return r.ID()
	default:
		return ""
	}
}

// resolve turns a stored reference into the form's reference plus the name to display.
func resolve(r model.Reference, lk Lookup, placeholder string) (model.Reference, string) {
	switch r.Kind() {
	case model.RefResolved:
		if r.ID() == "" {
			// populated without an id, match by display name
			if id, ok := lk.IDByName(r.Name()); ok {
				return model.Resolved(id, r.Name()), r.Name()
			}
			return r, r.Name()
		}
		if r.Name() != "" {
			return r, r.Name()
		}
		if name, ok := lk.Name(r.ID()); ok {
			return model.Resolved(r.ID(), name), name
		}
		return model.ByID(r.ID()), placeholder
	case model.RefID:
		if name, ok := lk.Name(r.ID()); ok {
			return model.Resolved(r.ID(), name), name
		}
		return r, placeholder
	default:
		return model.Reference{}, ""
	}
}

func plaquesOrEmpty(p []model.Plaque) []model.Plaque {
	if p == nil {
		return []model.Plaque{}
	}
	out := make([]model.Plaque, len(p))
	copy(out, p)
	return out
}
