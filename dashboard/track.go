package dashboard

import (
	"context"
	"io"

	"catalogadmin/model"
	"catalogadmin/normalize"
	"catalogadmin/storage"
)

type TrackScreen struct {
	*screen[model.Track, normalize.TrackForm, model.TrackPayload]
}

func NewTrackScreen(res Resource[model.Track, model.TrackPayload], loader LookupLoader, uploader ImageUploader) *TrackScreen {
	return &TrackScreen{newScreen(Tracks, res, loader, uploader)}
}

// SelectAlbum accepts an album id or title.
func (s *TrackScreen) SelectAlbum(idOrTitle string) error {
	choice, err := selectRef(s.lookups.Albums, "album", idOrTitle)
	if err != nil {
		return err
	}
	return s.Update(func(f *normalize.TrackForm) error {
		f.Album = model.Resolved(choice.id, choice.name)
		f.AlbumTitle = choice.name
		return nil
	})
}

// SetDurationMs updates the duration and its m:ss preview.
func (s *TrackScreen) SetDurationMs(ms int) error {
	return s.Update(func(f *normalize.TrackForm) error {
		if ms < 0 {
			ms = 0
		}
		f.DurationMs = ms
		f.DurationPreview = normalize.FormatMillis(ms)
		return nil
	})
}

func (s *TrackScreen) UploadTrackArt(ctx context.Context, filename string, r io.Reader) (string, error) {
	return s.upload(ctx, storage.TrackArt, filename, r, func(f *normalize.TrackForm, url string) {
		f.TrackArt = url
	})
}
