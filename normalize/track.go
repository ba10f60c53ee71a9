package normalize

import (
	"fmt"
	"strings"

	"catalogadmin/model"
)

// TrackForm is the working model behind the track editor. AlbumTitle and
// DurationPreview are display-only and never submitted.
type TrackForm struct {
	ID                string          `json:"id,omitempty"`
	Title             string          `json:"title"`
	Album             model.Reference `json:"album"`
	AlbumTitle        string          `json:"album_title,omitempty"`
	DurationMs        int             `json:"durationMs"`
	DurationPreview   string          `json:"duration_preview,omitempty"`
	TrackNumber       int             `json:"trackNumber"`
	FeaturedArtists   string          `json:"featuredArtists,omitempty"`
	TrackArt          string          `json:"trackArt,omitempty"`
	TrackDescription  string          `json:"trackDescription,omitempty"`
	SpecialCredits    string          `json:"specialCredits,omitempty"`
	BackingVocals     string          `json:"backingVocals,omitempty"`
	Instrumentation   string          `json:"instrumentation,omitempty"`
	ReleaseDate       string          `json:"releaseDate,omitempty"`
	Producer          string          `json:"producer,omitempty"`
	MasteringEngineer string          `json:"masteringEngineer,omitempty"`
	MixingEngineer    string          `json:"mixingEngineer,omitempty"`
	Writer            string          `json:"writer,omitempty"`
	IsPublished       bool            `json:"isPublished"`
}

// ToPayload trims free text and defaults the track number to 1.
func (f TrackForm) ToPayload() model.TrackPayload {
	number := f.TrackNumber
	if number <= 0 {
		number = 1
	}
	duration := f.DurationMs
	if duration < 0 {
		duration = 0
	}
	return model.TrackPayload{
		Title:             strings.TrimSpace(f.Title),
		Album:             refID(f.Album),
		DurationMs:        duration,
		TrackNumber:       number,
		FeaturedArtists:   optional(f.FeaturedArtists),
		TrackArt:          optional(f.TrackArt),
		TrackDescription:  optional(f.TrackDescription),
		SpecialCredits:    optional(f.SpecialCredits),
		BackingVocals:     optional(f.BackingVocals),
		Instrumentation:   optional(f.Instrumentation),
		ReleaseDate:       optional(f.ReleaseDate),
		Producer:          optional(f.Producer),
		MasteringEngineer: optional(f.MasteringEngineer),
		MixingEngineer:    optional(f.MixingEngineer),
		Writer:            optional(f.Writer),
		IsPublished:       f.IsPublished,
	}
}

// TrackFormFrom hydrates the editor. An album id missing from the lookup keeps
// the bare id and leaves the selector on its placeholder.
func TrackFormFrom(t model.Track, lk Lookups) (TrackForm, error) {
	if t.ID == "" {
		return TrackForm{}, fmt.Errorf("%w: track %q", ErrMissingIdentity, t.Title)
	}
	albumRef, albumTitle := resolve(t.Album, lk.Albums, UnknownAlbum)

	return TrackForm{
		ID:                t.ID,
		Title:             t.Title,
		Album:             albumRef,
		AlbumTitle:        albumTitle,
		DurationMs:        t.DurationMs,
		DurationPreview:   FormatMillis(t.DurationMs),
		TrackNumber:       t.TrackNumber,
		FeaturedArtists:   t.FeaturedArtists,
		TrackArt:          t.TrackArt,
		TrackDescription:  t.TrackDescription,
		SpecialCredits:    t.SpecialCredits,
		BackingVocals:     t.BackingVocals,
		Instrumentation:   t.Instrumentation,
		ReleaseDate:       dateOnly(t.ReleaseDate),
		Producer:          t.Producer,
		MasteringEngineer: t.MasteringEngineer,
		MixingEngineer:    t.MixingEngineer,
		Writer:            t.Writer,
		IsPublished:       t.IsPublished,
	}, nil
}
