package normalize

import (
	"fmt"

	"catalogadmin/model"
)

// ArtistForm is the working model behind the artist editor.
type ArtistForm struct {
	ID                string          `json:"id,omitempty"`
	Name              string          `json:"name"`
	FirstName         string          `json:"firstName,omitempty"`
	LastName          string          `json:"lastName,omitempty"`
	Bio               string          `json:"bio,omitempty"`
	ProfilePictureURL string          `json:"profilePictureUrl,omitempty"`
	CoverPhoto        string          `json:"cover_photo,omitempty"`
	Genre             model.Reference `json:"genre"`
	GenreName         string          `json:"genre_name,omitempty"`
	User              model.Reference `json:"user"`
	UserName          string          `json:"user_name,omitempty"`
}

func (f ArtistForm) ToPayload() model.ArtistPayload {
	return model.ArtistPayload{
		Name:              f.Name,
		FirstName:         optional(f.FirstName),
		LastName:          optional(f.LastName),
		Bio:               optional(f.Bio),
		ProfilePictureURL: optional(f.ProfilePictureURL),
		CoverPhoto:        optional(f.CoverPhoto),
		Genre:             refID(f.Genre),
		User:              refID(f.User),
	}
}

func ArtistFormFrom(a model.Artist, lk Lookups) (ArtistForm, error) {
	if a.ID == "" {
		return ArtistForm{}, fmt.Errorf("%w: artist %q", ErrMissingIdentity, a.Name)
	}
	genreRef, genreName := resolve(a.Genre, lk.Genres, UnknownGenre)
	userRef, userName := resolve(a.User, lk.Users, UnknownUser)

	return ArtistForm{
		ID:                a.ID,
		Name:              a.Name,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		Bio:               a.Bio,
		ProfilePictureURL: a.ProfilePictureURL,
		CoverPhoto:        a.CoverPhoto,
		Genre:             genreRef,
		GenreName:         genreName,
		User:              userRef,
		UserName:          userName,
	}, nil
}
