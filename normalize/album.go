package normalize

import (
	"fmt"

	"catalogadmin/model"
)

// AlbumForm is the working model behind the album editor. Duration is the
// canonical value in seconds; DurationInput and DurationUnit are what the
// editor shows.
type AlbumForm struct {
	ID            string          `json:"id,omitempty"`
	Title         string          `json:"title"`
	Artist        model.Reference `json:"artist"`
	ArtistName    string          `json:"artist_name,omitempty"`
	Genre         model.Reference `json:"genre"`
	GenreName     string          `json:"genre_name,omitempty"`
	ReleaseDate   string          `json:"release_date,omitempty"`
	CoverArt      string          `json:"cover_art,omitempty"`
	Description   string          `json:"description,omitempty"`
	TrackCount    int             `json:"track_count"`
	CopyrightInfo string          `json:"copyright_info,omitempty"`
	Publisher     string          `json:"publisher,omitempty"`
	Credits       string          `json:"credits,omitempty"`
	Affiliation   string          `json:"affiliation,omitempty"`
	Duration      int             `json:"duration"`
	DurationInput string          `json:"duration_input,omitempty"`
	DurationUnit  DurationUnit    `json:"duration_unit,omitempty"`
	IsPublished   bool            `json:"is_published"`
	IsFeatured    bool            `json:"is_featured"`
	Plaques       []model.Plaque  `json:"plaqueArray"`
}

// SetDuration parses input under unit and updates the canonical seconds.
// On error the form is left unchanged.
func (f *AlbumForm) SetDuration(input string, unit DurationUnit) error {
	if !unit.Valid() {
		unit = UnitSeconds
	}
	secs, err := ParseDuration(input, unit)
	if err != nil {
		return err
	}
	f.Duration = secs
	f.DurationInput = input
	f.DurationUnit = unit
	return nil
}

// SetDurationUnit switches the display unit and re-renders the input from the
// canonical seconds, as the editor does when the unit selector changes.
func (f *AlbumForm) SetDurationUnit(unit DurationUnit) {
	if !unit.Valid() {
		unit = UnitSeconds
	}
	f.DurationUnit = unit
	if f.Duration == 0 {
		f.DurationInput = ""
		return
	}
	f.DurationInput = FormatDuration(f.Duration, unit)
}

// ToPayload reduces the working model to the body POSTed or PUT to /albums.
func (f AlbumForm) ToPayload() model.AlbumPayload {
	genreID := refID(f.Genre)
	return model.AlbumPayload{
		Title:         f.Title,
		Artist:        refID(f.Artist),
		Genre:         genreID,
		GenreID:       genreID,
		ReleaseDate:   optional(f.ReleaseDate),
		CoverArt:      optional(f.CoverArt),
		Description:   optional(f.Description),
		TrackCount:    f.TrackCount,
		CopyrightInfo: optional(f.CopyrightInfo),
		Publisher:     optional(f.Publisher),
		Credits:       optional(f.Credits),
		Affiliation:   optional(f.Affiliation),
		Duration:      f.Duration,
		IsPublished:   f.IsPublished,
		IsFeatured:    f.IsFeatured,
		Plaques:       plaquesOrEmpty(f.Plaques),
	}
}

// AlbumFormFrom hydrates the editor from an album fetched from the API.
func AlbumFormFrom(a model.Album, lk Lookups) (AlbumForm, error) {
	if a.ID == "" {
		return AlbumForm{}, fmt.Errorf("%w: album %q", ErrMissingIdentity, a.Title)
	}

	genre := a.Genre
	if genre.IsZero() && a.GenreID != "" {
		genre = model.ByID(a.GenreID)
	}
	artistRef, artistName := resolve(a.Artist, lk.Artists, UnknownArtist)
	genreRef, genreName := resolve(genre, lk.Genres, UnknownGenre)

	unit := UnitFor(a.Duration)
	input := ""
	if a.Duration > 0 {
		input = FormatDuration(a.Duration, unit)
	}

	return AlbumForm{
		ID:            a.ID,
		Title:         a.Title,
		Artist:        artistRef,
		ArtistName:    artistName,
		Genre:         genreRef,
		GenreName:     genreName,
		ReleaseDate:   dateOnly(a.ReleaseDate),
		CoverArt:      a.CoverArt,
		Description:   a.Description,
		TrackCount:    a.TrackCount,
		CopyrightInfo: a.CopyrightInfo,
		Publisher:     a.Publisher,
		Credits:       a.Credits,
		Affiliation:   a.Affiliation,
		Duration:      a.Duration,
		DurationInput: input,
		DurationUnit:  unit,
		IsPublished:   a.IsPublished,
		IsFeatured:    a.IsFeatured,
		Plaques:       plaquesOrEmpty(a.Plaques),
	}, nil
}

// dateOnly trims an API timestamp to the YYYY-MM-DD a date input expects.
func dateOnly(s string) string {
	if t, ok := model.ParseDate(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}
