package api

import (
	"context"
	"fmt"

	"catalogadmin/model"
	"catalogadmin/normalize"
)

// Collection names accepted by Loader.Lookups.
const (
	CollectionArtists = "artists"
	CollectionGenres  = "genres"
	CollectionUsers   = "users"
	CollectionAlbums  = "albums"
)

// Loader fetches the reference collections that fill select boxes and
// resolve reference ids to names.
type Loader struct {
	client *Client
}

func NewLoader(c *Client) *Loader {
	return &Loader{client: c}
}

func (l *Loader) Artists(ctx context.Context) ([]model.Artist, error) {
	return l.client.Artists().List(ctx)
}

func (l *Loader) Genres(ctx context.Context) ([]model.Genre, error) {
	return l.client.Genres().List(ctx)
}

func (l *Loader) Users(ctx context.Context) ([]model.User, error) {
	return l.client.Users().List(ctx)
}

func (l *Loader) Albums(ctx context.Context) ([]model.Album, error) {
	return l.client.Albums().List(ctx)
}

func (l *Loader) Tracks(ctx context.Context) ([]model.Track, error) {
	return l.client.Tracks().List(ctx)
}

func (l *Loader) News(ctx context.Context) ([]model.News, error) {
	return l.client.News().List(ctx)
}

// Lookups loads the named collections one after another and builds the
// id to name tables reverse hydration needs.
func (l *Loader) Lookups(ctx context.Context, names ...string) (normalize.Lookups, error) {
	var lk normalize.Lookups
	for _, name := range names {
		switch name {
		case CollectionArtists:
			items, err := l.Artists(ctx)
			if err != nil {
				return lk, fmt.Errorf("loading artists: %w", err)
			}
			lk.Artists = normalize.ArtistLookup(items)
		case CollectionGenres:
			items, err := l.Genres(ctx)
			if err != nil {
				return lk, fmt.Errorf("loading genres: %w", err)
			}
			lk.Genres = normalize.GenreLookup(items)
		case CollectionUsers:
			items, err := l.Users(ctx)
			if err != nil {
				return lk, fmt.Errorf("loading users: %w", err)
			}
			lk.Users = normalize.UserLookup(items)
		case CollectionAlbums:
			items, err := l.Albums(ctx)
			if err != nil {
				return lk, fmt.Errorf("loading albums: %w", err)
			}
			lk.Albums = normalize.AlbumLookup(items)
		default:
			return lk, fmt.Errorf("unknown lookup collection %q", name)
		}
	}
	return lk, nil
}
