package normalize

import (
	"fmt"
	"strings"

	"catalogadmin/model"
)

type GenreForm struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (f GenreForm) ToPayload() model.GenrePayload {
	return model.GenrePayload{Name: strings.TrimSpace(f.Name)}
}

func GenreFormFrom(g model.Genre, _ Lookups) (GenreForm, error) {
	if g.ID == "" {
		return GenreForm{}, fmt.Errorf("%w: genre %q", ErrMissingIdentity, g.Name)
	}
	return GenreForm{ID: g.ID, Name: g.Name}, nil
}
