package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"catalogadmin/api"
	"catalogadmin/dashboard"
	"catalogadmin/logger"
	"catalogadmin/model"
	"catalogadmin/normalize"
	"catalogadmin/storage"

	"github.com/spf13/cobra"
)

// imageUploader returns nil when object storage is not configured, so the
// screens report ErrNoUploader only if an image is actually given.
func (a *appContext) imageUploader() dashboard.ImageUploader {
	u, err := a.uploader()
	if err != nil {
		logger.Debug("uploads unavailable", logger.ErrorField(err))
		return nil
	}
	return u
}

type uploadFunc func(ctx context.Context, filename string, r io.Reader) (string, error)

// attachImage uploads a local file, or takes an http(s) URL as is.
func attachImage(ctx context.Context, value string, upload uploadFunc, setURL func(string) error) error {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return setURL(value)
	}
	f, err := os.Open(value)
	if err != nil {
		return err
	}
	defer f.Close()
	url, err := upload(ctx, filepath.Base(value), f)
	if err != nil {
		return err
	}
	logger.Info("image uploaded", logger.String("file", value), logger.String("url", url))
	return nil
}

func changed(cmd *cobra.Command, name string) (string, bool) {
	if !cmd.Flags().Changed(name) {
		return "", false
	}
	v, _ := cmd.Flags().GetString(name)
	return v, true
}

var artistCommands = entityCommands[model.Artist, normalize.ArtistForm, *dashboard.ArtistScreen]{
	use:   "artist",
	short: "Manage artists",
	open: func() *dashboard.ArtistScreen {
		return dashboard.NewArtistScreen(app.client.Artists(), api.NewLoader(app.client), app.imageUploader())
	},
	id:     func(a model.Artist) string { return a.ID },
	formID: dashboard.Artists.FormID,
	label:  func(a model.Artist) string { return a.Name },
	flags: func(c *cobra.Command) {
		c.Flags().String("name", "", "artist name")
		c.Flags().String("genre", "", "genre id or name")
		c.Flags().String("user", "", "linked user id or name")
		c.Flags().String("picture", "", "profile picture file or URL")
		c.Flags().String("cover", "", "cover photo file or URL")
	},
	apply: func(cmd *cobra.Command, s *dashboard.ArtistScreen) error {
		ctx := cmd.Context()
		if v, ok := changed(cmd, "name"); ok {
			if err := s.Update(func(f *normalize.ArtistForm) error { f.Name = v; return nil }); err != nil {
				return err
			}
		}
		if v, ok := changed(cmd, "genre"); ok {
			if err := s.SelectGenre(v); err != nil {
				return err
			}
		}
		if v, ok := changed(cmd, "user"); ok {
			if err := s.SelectUser(v); err != nil {
				return err
			}
		}
		if v, ok := changed(cmd, "picture"); ok {
			err := attachImage(ctx, v, s.UploadProfilePicture, func(url string) error {
				return s.Update(func(f *normalize.ArtistForm) error { f.ProfilePictureURL = url; return nil })
			})
			if err != nil {
				return err
			}
		}
		if v, ok := changed(cmd, "cover"); ok {
			return attachImage(ctx, v, s.UploadCoverPhoto, func(url string) error {
				return s.Update(func(f *normalize.ArtistForm) error { f.CoverPhoto = url; return nil })
			})
		}
		return nil
	},
}

var albumCommands = entityCommands[model.Album, normalize.AlbumForm, *dashboard.AlbumScreen]{
	use:    "album",
	short:  "Manage albums and their plaques",
	open:   openAlbumScreen,
	id:     func(a model.Album) string { return a.ID },
	formID: dashboard.Albums.FormID,
	label:  func(a model.Album) string { return a.Title },
	flags: func(c *cobra.Command) {
		c.Flags().String("title", "", "album title")
		c.Flags().String("artist", "", "artist id or name")
		c.Flags().String("genre", "", "genre id or name")
		c.Flags().String("duration", "", "total duration, seconds or m:ss per --unit")
		c.Flags().String("unit", string(normalize.UnitSeconds), "duration unit: seconds or minutes")
		c.Flags().String("cover", "", "cover art file or URL")
		c.Flags().String("plaque-type", "", "add a plaque of this type ("+strings.Join(dashboard.PlaqueTypes, ", ")+")")
		c.Flags().String("plaque-image", "", "plaque image file or URL")
		c.Flags().String("plaque-price", "", "plaque price range")
	},
	apply: applyAlbumFlags,
}

func openAlbumScreen() *dashboard.AlbumScreen {
	return dashboard.NewAlbumScreen(app.client.Albums(), app.client, api.NewLoader(app.client), app.imageUploader())
}

func applyAlbumFlags(cmd *cobra.Command, s *dashboard.AlbumScreen) error {
	ctx := cmd.Context()
	if v, ok := changed(cmd, "title"); ok {
		if err := s.Update(func(f *normalize.AlbumForm) error { f.Title = v; return nil }); err != nil {
			return err
		}
	}
	if v, ok := changed(cmd, "artist"); ok {
		if err := s.SelectArtist(v); err != nil {
			return err
		}
	}
	if v, ok := changed(cmd, "genre"); ok {
		if err := s.SelectGenre(v); err != nil {
			return err
		}
	}
	unit, _ := cmd.Flags().GetString("unit")
	if v, ok := changed(cmd, "duration"); ok {
		if err := s.SetDuration(v, normalize.DurationUnit(unit)); err != nil {
			return err
		}
	} else if cmd.Flags().Changed("unit") {
		if err := s.SetDurationUnit(normalize.DurationUnit(unit)); err != nil {
			return err
		}
	}
	if v, ok := changed(cmd, "cover"); ok {
		err := attachImage(ctx, v, s.UploadCoverArt, func(url string) error {
			return s.Update(func(f *normalize.AlbumForm) error { f.CoverArt = url; return nil })
		})
		if err != nil {
			return err
		}
	}
	if t, ok := changed(cmd, "plaque-type"); ok {
		p, err := plaqueFromFlags(cmd, s, t)
		if err != nil {
			return err
		}
		return s.AddPlaque(p)
	}
	return nil
}

// plaqueFromFlags builds a plaque, uploading its image when a file is given.
func plaqueFromFlags(cmd *cobra.Command, s *dashboard.AlbumScreen, plaqueType string) (model.Plaque, error) {
	image, _ := cmd.Flags().GetString("plaque-image")
	price, _ := cmd.Flags().GetString("plaque-price")
	if image != "" && !strings.HasPrefix(image, "http://") && !strings.HasPrefix(image, "https://") {
		f, err := os.Open(image)
		if err != nil {
			return model.Plaque{}, err
		}
		defer f.Close()
		if image, err = s.UploadPlaqueImage(cmd.Context(), filepath.Base(image), f); err != nil {
			return model.Plaque{}, err
		}
	}
	return dashboard.NewPlaque(plaqueType, image, price)
}

var trackCommands = entityCommands[model.Track, normalize.TrackForm, *dashboard.TrackScreen]{
	use:   "track",
	short: "Manage tracks",
	open: func() *dashboard.TrackScreen {
		return dashboard.NewTrackScreen(app.client.Tracks(), api.NewLoader(app.client), app.imageUploader())
	},
	id:     func(t model.Track) string { return t.ID },
	formID: dashboard.Tracks.FormID,
	label:  func(t model.Track) string { return t.Title },
	flags: func(c *cobra.Command) {
		c.Flags().String("title", "", "track title")
		c.Flags().String("album", "", "album id or title")
		c.Flags().Int("duration-ms", 0, "duration in milliseconds")
		c.Flags().Int("number", 0, "track number")
		c.Flags().String("art", "", "track art file or URL")
	},
	apply: func(cmd *cobra.Command, s *dashboard.TrackScreen) error {
		if v, ok := changed(cmd, "title"); ok {
			if err := s.Update(func(f *normalize.TrackForm) error { f.Title = v; return nil }); err != nil {
				return err
			}
		}
		if v, ok := changed(cmd, "album"); ok {
			if err := s.SelectAlbum(v); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("duration-ms") {
			ms, _ := cmd.Flags().GetInt("duration-ms")
			if err := s.SetDurationMs(ms); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("number") {
			n, _ := cmd.Flags().GetInt("number")
			if err := s.Update(func(f *normalize.TrackForm) error { f.TrackNumber = n; return nil }); err != nil {
				return err
			}
		}
		if v, ok := changed(cmd, "art"); ok {
			return attachImage(cmd.Context(), v, s.UploadTrackArt, func(url string) error {
				return s.Update(func(f *normalize.TrackForm) error { f.TrackArt = url; return nil })
			})
		}
		return nil
	},
}

var genreCommands = entityCommands[model.Genre, normalize.GenreForm, *dashboard.GenreScreen]{
	use:   "genre",
	short: "Manage genres",
	open: func() *dashboard.GenreScreen {
		return dashboard.NewGenreScreen(app.client.Genres())
	},
	id:     func(g model.Genre) string { return g.ID },
	formID: dashboard.Genres.FormID,
	label:  func(g model.Genre) string { return g.Name },
	flags: func(c *cobra.Command) {
		c.Flags().String("name", "", "genre name")
	},
	apply: func(cmd *cobra.Command, s *dashboard.GenreScreen) error {
		if v, ok := changed(cmd, "name"); ok {
			return s.Update(func(f *normalize.GenreForm) error { f.Name = v; return nil })
		}
		return nil
	},
}

var newsCommands = entityCommands[model.News, normalize.NewsForm, *dashboard.NewsScreen]{
	use:   "news",
	short: "Manage news items",
	open: func() *dashboard.NewsScreen {
		return dashboard.NewNewsScreen(app.client.News(), app.imageUploader())
	},
	id:     func(n model.News) string { return n.ID },
	formID: dashboard.News.FormID,
	label: func(n model.News) string {
		if n.ExpiresAt != "" {
			return fmt.Sprintf("%s (until %s)", n.Title, n.ExpiresAt)
		}
		return n.Title
	},
	flags: func(c *cobra.Command) {
		c.Flags().String("title", "", "headline")
		c.Flags().String("expires", "", "expiry date, YYYY-MM-DD")
		c.Flags().Bool("publish", false, "publish the item")
		c.Flags().String("image", "", "image file or URL")
	},
	apply: func(cmd *cobra.Command, s *dashboard.NewsScreen) error {
		err := s.Update(func(f *normalize.NewsForm) error {
			if v, ok := changed(cmd, "title"); ok {
				f.Title = v
			}
			if v, ok := changed(cmd, "expires"); ok {
				f.ExpiresAt = v
			}
			if cmd.Flags().Changed("publish") {
				f.IsPublished, _ = cmd.Flags().GetBool("publish")
			}
			return nil
		})
		if err != nil {
			return err
		}
		if v, ok := changed(cmd, "image"); ok {
			return attachImage(cmd.Context(), v, s.UploadImage, func(url string) error {
				return s.Update(func(f *normalize.NewsForm) error { f.Image = url; return nil })
			})
		}
		return nil
	},
}

func plaqueCommand() *cobra.Command {
	parent := &cobra.Command{Use: "plaque", Short: "Manage plaques on a saved album"}

	printPlaques := func(cmd *cobra.Command, a model.Album) {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tTYPE\tPRICE\tIMAGE")
		for i, p := range a.Plaques {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, p.Type, p.PriceRange, p.ImageURL)
		}
		tw.Flush()
	}
	addFlags := func(c *cobra.Command) {
		c.Flags().String("plaque-type", "", "plaque type ("+strings.Join(dashboard.PlaqueTypes, ", ")+")")
		c.Flags().String("plaque-image", "", "plaque image file or URL")
		c.Flags().String("plaque-price", "", "price range")
		c.MarkFlagRequired("plaque-type")
		c.MarkFlagRequired("plaque-image")
	}

	add := &cobra.Command{
		Use:   "add <album-id>",
		Short: "Add a plaque",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := openAlbumScreen()
			t, _ := cmd.Flags().GetString("plaque-type")
			p, err := plaqueOutsideForm(cmd, t)
			if err != nil {
				return err
			}
			album, err := s.AddSavedPlaque(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			printPlaques(cmd, album)
			return nil
		},
	}
	addFlags(add)

	set := &cobra.Command{
		Use:   "set <album-id> <index>",
		Short: "Replace the plaque at index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("plaque index must be a number: %w", err)
			}
			s := openAlbumScreen()
			t, _ := cmd.Flags().GetString("plaque-type")
			p, err := plaqueOutsideForm(cmd, t)
			if err != nil {
				return err
			}
			album, err := s.UpdateSavedPlaque(cmd.Context(), args[0], index, p)
			if err != nil {
				return err
			}
			printPlaques(cmd, album)
			return nil
		},
	}
	addFlags(set)

	rm := &cobra.Command{
		Use:   "rm <album-id> <index>",
		Short: "Remove the plaque at index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("plaque index must be a number: %w", err)
			}
			album, err := openAlbumScreen().DeleteSavedPlaque(cmd.Context(), args[0], index)
			if err != nil {
				return err
			}
			printPlaques(cmd, album)
			return nil
		},
	}

	parent.AddCommand(add, set, rm)
	return parent
}

// plaqueOutsideForm uploads a plaque image without an open album form.
func plaqueOutsideForm(cmd *cobra.Command, plaqueType string) (model.Plaque, error) {
	image, _ := cmd.Flags().GetString("plaque-image")
	price, _ := cmd.Flags().GetString("plaque-price")
	if !strings.HasPrefix(image, "http://") && !strings.HasPrefix(image, "https://") {
		u, err := app.uploader()
		if err != nil {
			return model.Plaque{}, err
		}
		f, err := os.Open(image)
		if err != nil {
			return model.Plaque{}, err
		}
		defer f.Close()
		res, err := u.Upload(cmd.Context(), storage.AlbumPlaque, filepath.Base(image), f)
		if err != nil {
			return model.Plaque{}, err
		}
		image = res.URL
	}
	return dashboard.NewPlaque(plaqueType, image, price)
}

var lookupsCmd = &cobra.Command{
	Use:       "lookups <artists|genres|users|albums>",
	Short:     "Print the options of a reference collection",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{api.CollectionArtists, api.CollectionGenres, api.CollectionUsers, api.CollectionAlbums},
	RunE: func(cmd *cobra.Command, args []string) error {
		lk, err := api.NewLoader(app.client).Lookups(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		var l normalize.Lookup
		switch args[0] {
		case api.CollectionArtists:
			l = lk.Artists
		case api.CollectionGenres:
			l = lk.Genres
		case api.CollectionUsers:
			l = lk.Users
		case api.CollectionAlbums:
			l = lk.Albums
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME")
		for _, o := range l.Options() {
			fmt.Fprintf(tw, "%s\t%s\n", o.ID, o.Name)
		}
		return tw.Flush()
	},
}

func init() {
	album := albumCommands.command()
	album.AddCommand(plaqueCommand())

	rootCmd.AddCommand(
		artistCommands.command(),
		album,
		trackCommands.command(),
		genreCommands.command(),
		newsCommands.command(),
		lookupsCmd,
	)
}
