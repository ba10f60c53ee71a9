// Package dashboard composes the loader, normalizer, form controller, board
// and uploader into one screen per catalog entity.
package dashboard

import (
	"context"
	"strings"

	"catalogadmin/api"
	"catalogadmin/form"
	"catalogadmin/model"
	"catalogadmin/normalize"
)

// Resource is the REST surface a screen writes through. api.Resource satisfies it.
type Resource[E any, P any] interface {
	List(ctx context.Context) ([]E, error)
	Get(ctx context.Context, id string) (E, error)
	Create(ctx context.Context, payload P) (E, error)
	Update(ctx context.Context, id string, payload P) (E, error)
	Delete(ctx context.Context, id string) error
}

// LookupLoader loads reference collections by name. *api.Loader satisfies it.
type LookupLoader interface {
	Lookups(ctx context.Context, names ...string) (normalize.Lookups, error)
}

// Entity describes how one entity type moves between the API and its form.
// The admin gateway uses the same descriptors.
type Entity[E any, F normalize.Form[P], P any] struct {
	Name    string
	Lookups []string
	Blank   func() F
	Hydrate func(E, normalize.Lookups) (F, error)
	// Prepare folds display-only input into canonical fields before validation.
	Prepare  func(*F) error
	Validate func(F) error
	ID       func(E) string
	FormID   func(F) string
}

// Normalize runs Prepare and Validate and returns the canonical payload.
func (d Entity[E, F, P]) Normalize(f F) (P, error) {
	var zero P
	if d.Prepare != nil {
		if err := d.Prepare(&f); err != nil {
			return zero, err
		}
	}
	if d.Validate != nil {
		if err := d.Validate(f); err != nil {
			return zero, err
		}
	}
	return f.ToPayload(), nil
}

var Artists = Entity[model.Artist, normalize.ArtistForm, model.ArtistPayload]{
	Name:     "artist",
	Lookups:  []string{api.CollectionGenres, api.CollectionUsers},
	Blank:    func() normalize.ArtistForm { return normalize.ArtistForm{} },
	Hydrate:  normalize.ArtistFormFrom,
	Validate: ValidateArtist,
	ID:       func(a model.Artist) string { return a.ID },
	FormID:   func(f normalize.ArtistForm) string { return f.ID },
}

var Albums = Entity[model.Album, normalize.AlbumForm, model.AlbumPayload]{
	Name:    "album",
	Lookups: []string{api.CollectionArtists, api.CollectionGenres},
	Blank: func() normalize.AlbumForm {
		return normalize.AlbumForm{DurationUnit: normalize.UnitSeconds, Plaques: []model.Plaque{}}
	},
	Hydrate:  normalize.AlbumFormFrom,
	Prepare:  prepareAlbum,
	Validate: ValidateAlbum,
	ID:       func(a model.Album) string { return a.ID },
	FormID:   func(f normalize.AlbumForm) string { return f.ID },
}

var Tracks = Entity[model.Track, normalize.TrackForm, model.TrackPayload]{
	Name:     "track",
	Lookups:  []string{api.CollectionAlbums},
	Blank:    func() normalize.TrackForm { return normalize.TrackForm{TrackNumber: 1} },
	Hydrate:  normalize.TrackFormFrom,
	Validate: ValidateTrack,
	ID:       func(t model.Track) string { return t.ID },
	FormID:   func(f normalize.TrackForm) string { return f.ID },
}

var Genres = Entity[model.Genre, normalize.GenreForm, model.GenrePayload]{
	Name:     "genre",
	Blank:    func() normalize.GenreForm { return normalize.GenreForm{} },
	Hydrate:  normalize.GenreFormFrom,
	Validate: ValidateGenre,
	ID:       func(g model.Genre) string { return g.ID },
	FormID:   func(f normalize.GenreForm) string { return f.ID },
}

var News = Entity[model.News, normalize.NewsForm, model.NewsPayload]{
	Name:     "news",
	Blank:    func() normalize.NewsForm { return normalize.NewsForm{} },
	Hydrate:  normalize.NewsFormFrom,
	Validate: ValidateNews,
	ID:       func(n model.News) string { return n.ID },
	FormID:   func(f normalize.NewsForm) string { return f.ID },
}

// prepareAlbum parses a typed duration when one was given, so a working model
// posted with only duration_input still carries seconds.
func prepareAlbum(f *normalize.AlbumForm) error {
	if strings.TrimSpace(f.DurationInput) == "" {
		return nil
	}
	if err := f.SetDuration(f.DurationInput, f.DurationUnit); err != nil {
		var c form.Checks
		c.Add("duration", err.Error())
		return c.Err()
	}
	return nil
}

func ValidateArtist(f normalize.ArtistForm) error {
	var c form.Checks
	return c.Required("name", "Artist name", f.Name).Err()
}

func ValidateAlbum(f normalize.AlbumForm) error {
	var c form.Checks
	c.Required("title", "Album title", f.Title).
		Check(!f.Artist.IsZero() && f.Artist.ID() != "", "artist", "Artist is required").
		Check(f.Duration >= 0, "duration", "Duration cannot be negative").
		Check(f.TrackCount >= 0, "track_count", "Track count cannot be negative")
	return c.Err()
}

func ValidateTrack(f normalize.TrackForm) error {
	var c form.Checks
	return c.Required("title", "Track title", f.Title).
		Check(!f.Album.IsZero() && f.Album.ID() != "", "album", "Album is required").
		Check(f.DurationMs >= 0, "durationMs", "Duration cannot be negative").
		Err()
}

func ValidateGenre(f normalize.GenreForm) error {
	var c form.Checks
	return c.Required("name", "Genre name", f.Name).Err()
}

func ValidateNews(f normalize.NewsForm) error {
	var c form.Checks
	c.Required("title", "Title", f.Title)
	if strings.TrimSpace(f.ExpiresAt) != "" {
		_, ok := model.ParseDate(f.ExpiresAt)
		c.Check(ok, "expires_at", "Expiry must be a date like 2026-12-31")
	}
	return c.Err()
}
