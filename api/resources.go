package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"catalogadmin/logger"
	"catalogadmin/model"
)

// Collection is a read-only REST collection such as /users.
type Collection[E any] struct {
	client   *Client
	path     string
	name     string
	singular string
}

// List fetches the whole collection. An unrecognized envelope is logged and
// yields an empty list; transport and API errors are returned.
func (c Collection[E]) List(ctx context.Context) ([]E, error) {
	raw, err := c.client.Do(ctx, http.MethodGet, c.path, nil)
	if err != nil {
		return nil, err
	}
	res := DecodeList[E](raw, c.name)
	if !res.OK() {
		logger.Warn("unrecognized list envelope, treating as empty",
			logger.String("collection", c.name),
			logger.Int("bytes", len(res.Raw)),
			logger.ErrorField(res.Err))
		return []E{}, nil
	}
	return res.Items, nil
}

// Decode is List without the resilience: the caller sees the failure and the
// raw payload.
func (c Collection[E]) Decode(ctx context.Context) (DecodeResult[E], error) {
	raw, err := c.client.Do(ctx, http.MethodGet, c.path, nil)
	if err != nil {
		return DecodeResult[E]{}, err
	}
	return DecodeList[E](raw, c.name), nil
}

func (c Collection[E]) Get(ctx context.Context, id string) (E, error) {
	raw, err := c.client.Do(ctx, http.MethodGet, c.itemPath(id), nil)
	if err != nil {
		var zero E
		return zero, err
	}
	return DecodeOne[E](raw, c.singular)
}

func (c Collection[E]) Name() string { return c.name }

func (c Collection[E]) itemPath(id string) string {
	return c.path + "/" + url.PathEscape(id)
}

// Resource adds create, update and delete to a Collection. P is the canonical
// payload type sent on writes.
type Resource[E any, P any] struct {
	Collection[E]
}

// Create POSTs the payload. The returned entity is whatever the API echoed; it
// has an empty identity when the response carried no entity.
func (r Resource[E, P]) Create(ctx context.Context, payload P) (E, error) {
	raw, err := r.client.Do(ctx, http.MethodPost, r.path, payload)
	if err != nil {
		var zero E
		return zero, err
	}
	return DecodeOne[E](raw, r.singular)
}

func (r Resource[E, P]) Update(ctx context.Context, id string, payload P) (E, error) {
	if id == "" {
		var zero E
		return zero, fmt.Errorf("update %s: empty id", r.singular)
	}
	raw, err := r.client.Do(ctx, http.MethodPut, r.itemPath(id), payload)
	if err != nil {
		var zero E
		return zero, err
	}
	return DecodeOne[E](raw, r.singular)
}

func (r Resource[E, P]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete %s: empty id", r.singular)
	}
	_, err := r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil)
	return err
}

func newResource[E any, P any](c *Client, path, name, singular string) Resource[E, P] {
	return Resource[E, P]{Collection: Collection[E]{client: c, path: path, name: name, singular: singular}}
}

func (c *Client) Artists() Resource[model.Artist, model.ArtistPayload] {
	return newResource[model.Artist, model.ArtistPayload](c, "/artists", "artists", "artist")
}

func (c *Client) Albums() Resource[model.Album, model.AlbumPayload] {
	return newResource[model.Album, model.AlbumPayload](c, "/albums", "albums", "album")
}

func (c *Client) Tracks() Resource[model.Track, model.TrackPayload] {
	return newResource[model.Track, model.TrackPayload](c, "/tracks", "tracks", "track")
}

func (c *Client) Genres() Resource[model.Genre, model.GenrePayload] {
	return newResource[model.Genre, model.GenrePayload](c, "/genres", "genres", "genre")
}

func (c *Client) News() Resource[model.News, model.NewsPayload] {
	return newResource[model.News, model.NewsPayload](c, "/news", "news", "news")
}

func (c *Client) Users() Collection[model.User] {
	return Collection[model.User]{client: c, path: "/users", name: "users", singular: "user"}
}

// AddPlaque appends a plaque to a saved album and returns the updated album.
func (c *Client) AddPlaque(ctx context.Context, albumID string, p model.Plaque) (model.Album, error) {
	raw, err := c.Do(ctx, http.MethodPost, plaquesPath(albumID), p)
	if err != nil {
		return model.Album{}, err
	}
	return DecodeOne[model.Album](raw, "album")
}

// UpdatePlaque replaces the plaque at index on a saved album.
func (c *Client) UpdatePlaque(ctx context.Context, albumID string, index int, p model.Plaque) (model.Album, error) {
	if index < 0 {
		return model.Album{}, fmt.Errorf("plaque index %d out of range", index)
	}
	raw, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", plaquesPath(albumID), index), p)
	if err != nil {
		return model.Album{}, err
	}
	return DecodeOne[model.Album](raw, "album")
}

func (c *Client) DeletePlaque(ctx context.Context, albumID string, index int) (model.Album, error) {
	if index < 0 {
		return model.Album{}, fmt.Errorf("plaque index %d out of range", index)
	}
	raw, err := c.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", plaquesPath(albumID), index), nil)
	if err != nil {
		return model.Album{}, err
	}
	return DecodeOne[model.Album](raw, "album")
}

func plaquesPath(albumID string) string {
	return "/albums/" + url.PathEscape(albumID) + "/plaques"
}
