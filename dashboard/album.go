package dashboard

import (
	"context"
	"fmt"
	"io"

	"catalogadmin/api"
	"catalogadmin/logger"
	"catalogadmin/model"
	"catalogadmin/normalize"
	"catalogadmin/storage"
)

// PlaqueAPI manages plaques on albums that are already saved. *api.Client satisfies it.
type PlaqueAPI interface {
	AddPlaque(ctx context.Context, albumID string, p model.Plaque) (model.Album, error)
	UpdatePlaque(ctx context.Context, albumID string, index int, p model.Plaque) (model.Album, error)
	DeletePlaque(ctx context.Context, albumID string, index int) (model.Album, error)
}

type AlbumScreen struct {
	*screen[model.Album, normalize.AlbumForm, model.AlbumPayload]
	plaques PlaqueAPI
}

func NewAlbumScreen(res Resource[model.Album, model.AlbumPayload], plaques PlaqueAPI, loader LookupLoader, uploader ImageUploader) *AlbumScreen {
	return &AlbumScreen{screen: newScreen(Albums, res, loader, uploader), plaques: plaques}
}

func (s *AlbumScreen) SelectArtist(idOrName string) error {
	choice, err := selectRef(s.lookups.Artists, "artist", idOrName)
	if err != nil {
		return err
	}
	return s.Update(func(f *normalize.AlbumForm) error {
		f.Artist = model.Resolved(choice.id, choice.name)
		f.ArtistName = choice.name
		return nil
	})
}

func (s *AlbumScreen) SelectGenre(idOrName string) error {
	choice, err := selectRef(s.lookups.Genres, "genre", idOrName)
	if err != nil {
		return err
	}
	return s.Update(func(f *normalize.AlbumForm) error {
		f.Genre = model.Resolved(choice.id, choice.name)
		f.GenreName = choice.name
		return nil
	})
}

// SetDuration parses typed input under unit; a parse error leaves the form as it was.
func (s *AlbumScreen) SetDuration(input string, unit normalize.DurationUnit) error {
	return s.Update(func(f *normalize.AlbumForm) error {
		return f.SetDuration(input, unit)
	})
}

func (s *AlbumScreen) SetDurationUnit(unit normalize.DurationUnit) error {
	return s.Update(func(f *normalize.AlbumForm) error {
		f.SetDurationUnit(unit)
		return nil
	})
}

// AddPlaque appends a plaque to the working model.
func (s *AlbumScreen) AddPlaque(p model.Plaque) error {
	if err := checkPlaque(p); err != nil {
		return err
	}
	return s.Update(func(f *normalize.AlbumForm) error {
		f.Plaques = append(append([]model.Plaque{}, f.Plaques...), p)
		return nil
	})
}

func (s *AlbumScreen) RemovePlaque(index int) error {
	return s.Update(func(f *normalize.AlbumForm) error {
		if index < 0 || index >= len(f.Plaques) {
			return fmt.Errorf("plaque index %d out of range", index)
		}
		out := make([]model.Plaque, 0, len(f.Plaques)-1)
		out = append(out, f.Plaques[:index]...)
		f.Plaques = append(out, f.Plaques[index+1:]...)
		return nil
	})
}

func (s *AlbumScreen) UploadCoverArt(ctx context.Context, filename string, r io.Reader) (string, error) {
	return s.upload(ctx, storage.AlbumCover, filename, r, func(f *normalize.AlbumForm, url string) {
		f.CoverArt = url
	})
}

// UploadPlaqueImage stores a plaque image and returns its URL for a plaque
// that has not been added yet.
func (s *AlbumScreen) UploadPlaqueImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return s.upload(ctx, storage.AlbumPlaque, filename, r, nil)
}

// AddSavedPlaque adds a plaque to a saved album through its plaque endpoint.
func (s *AlbumScreen) AddSavedPlaque(ctx context.Context, albumID string, p model.Plaque) (model.Album, error) {
	if err := checkPlaque(p); err != nil {
		return model.Album{}, err
	}
	album, err := s.plaques.AddPlaque(ctx, albumID, p)
	return s.afterPlaqueChange(ctx, albumID, album, err)
}

func (s *AlbumScreen) UpdateSavedPlaque(ctx context.Context, albumID string, index int, p model.Plaque) (model.Album, error) {
	if err := checkPlaque(p); err != nil {
		return model.Album{}, err
	}
	album, err := s.plaques.UpdatePlaque(ctx, albumID, index, p)
	return s.afterPlaqueChange(ctx, albumID, album, err)
}

func (s *AlbumScreen) DeleteSavedPlaque(ctx context.Context, albumID string, index int) (model.Album, error) {
	album, err := s.plaques.DeletePlaque(ctx, albumID, index)
	return s.afterPlaqueChange(ctx, albumID, album, err)
}

func (s *AlbumScreen) afterPlaqueChange(ctx context.Context, albumID string, album model.Album, err error) (model.Album, error) {
	if err != nil {
		logger.Warn("plaque change failed", logger.String("albumId", albumID), logger.String("message", api.UserMessage(err)))
		return model.Album{}, err
	}
	if album.ID == "" {
		// response without the album: refetch it
		album, err = s.res.Get(ctx, albumID)
		if err != nil {
			return model.Album{}, err
		}
	}
	if album.Plaques == nil {
		album.Plaques = []model.Plaque{}
	}
	s.board.Upsert(album)
	return album, nil
}
