package dashboard

import (
	"context"
	"io"

	"catalogadmin/model"
	"catalogadmin/normalize"
	"catalogadmin/storage"
)

type ArtistScreen struct {
	*screen[model.Artist, normalize.ArtistForm, model.ArtistPayload]
}

func NewArtistScreen(res Resource[model.Artist, model.ArtistPayload], loader LookupLoader, uploader ImageUploader) *ArtistScreen {
	return &ArtistScreen{newScreen(Artists, res, loader, uploader)}
}

// SelectGenre accepts a genre id or name. Empty clears the selection.
func (s *ArtistScreen) SelectGenre(idOrName string) error {
	choice, err := selectRef(s.lookups.Genres, "genre", idOrName)
	if err != nil {
		return err
	}
	return s.Update(func(f *normalize.ArtistForm) error {
		f.Genre = model.Resolved(choice.id, choice.name)
		f.GenreName = choice.name
		return nil
	})
}

// SelectUser links the artist profile to a user account.
func (s *ArtistScreen) SelectUser(idOrName string) error {
	choice, err := selectRef(s.lookups.Users, "user", idOrName)
	if err != nil {
		return err
	}
	return s.Update(func(f *normalize.ArtistForm) error {
		f.User = model.Resolved(choice.id, choice.name)
		f.UserName = choice.name
		return nil
	})
}

func (s *ArtistScreen) UploadProfilePicture(ctx context.Context, filename string, r io.Reader) (string, error) {
	return s.upload(ctx, storage.ArtistProfile, filename, r, func(f *normalize.ArtistForm, url string) {
		f.ProfilePictureURL = url
	})
}

func (s *ArtistScreen) UploadCoverPhoto(ctx context.Context, filename string, r io.Reader) (string, error) {
	return s.upload(ctx, storage.ArtistCover, filename, r, func(f *normalize.ArtistForm, url string) {
		f.CoverPhoto = url
	})
}
