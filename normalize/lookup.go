package normalize

import (
	"strings"

	"catalogadmin/model"
)

// Option is one entry of a select box: the id submitted and the name shown.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Lookup resolves ids to display names for one reference collection.
// The zero value is an empty lookup.
type Lookup struct {
	options []Option
	byID    map[string]string
}

func NewLookup(options []Option) Lookup {
	l := Lookup{
		options: make([]Option, 0, len(options)),
		byID:    make(map[string]string, len(options)),
	}
	for _, o := range options {
		if o.ID == "" {
			continue
		}
		if _, dup := l.byID[o.ID]; dup {
			continue
		}
		l.byID[o.ID] = o.Name
		l.options = append(l.options, o)
	}
	return l
}

func (l Lookup) Name(id string) (string, bool) {
	name, ok := l.byID[id]
	return name, ok
}

// IDByName finds the id for a display name, preferring an exact match over a
// case-insensitive one.
func (l Lookup) IDByName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, o := range l.options {
		if o.Name == name {
			return o.ID, true
		}
	}
	for _, o := range l.options {
		if strings.EqualFold(o.Name, name) {
			return o.ID, true
		}
	}
	return "", false
}

func (l Lookup) Options() []Option {
	out := make([]Option, len(l.options))
	copy(out, l.options)
	return out
}

func (l Lookup) Len() int { return len(l.options) }

// Lookups bundles the collections reverse hydration needs.
type Lookups struct {
	Artists Lookup
	Genres  Lookup
	Users   Lookup
	Albums  Lookup
}

func ArtistLookup(artists []model.Artist) Lookup {
	opts := make([]Option, 0, len(artists))
	for _, a := range artists {
		opts = append(opts, Option{ID: a.ID, Name: a.Name})
	}
	return NewLookup(opts)
}

func GenreLookup(genres []model.Genre) Lookup {
	opts := make([]Option, 0, len(genres))
	for _, g := range genres {
		opts = append(opts, Option{ID: g.ID, Name: g.Name})
	}
	return NewLookup(opts)
}

func UserLookup(users []model.User) Lookup {
	opts := make([]Option, 0, len(users))
	for _, u := range users {
		opts = append(opts, Option{ID: u.ID, Name: u.DisplayName()})
	}
	return NewLookup(opts)
}

func AlbumLookup(albums []model.Album) Lookup {
	opts := make([]Option, 0, len(albums))
	for _, a := range albums {
		opts = append(opts, Option{ID: a.ID, Name: a.Title})
	}
	return NewLookup(opts)
}
