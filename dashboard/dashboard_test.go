package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"catalogadmin/api"
	"catalogadmin/form"
	"catalogadmin/model"
	"catalogadmin/normalize"
	"catalogadmin/storage"
)

type fakeResource[E any, P any] struct {
	items     []E
	created   []P
	updated   map[string]P
	deleted   []string
	createRes E
	updateRes E
	err       error
	lists     int
}

func (f *fakeResource[E, P]) List(context.Context) ([]E, error) {
	f.lists++
	return f.items, nil
}

func (f *fakeResource[E, P]) Get(context.Context, string) (E, error) {
	var zero E
	return zero, errors.New("not found")
}

func (f *fakeResource[E, P]) Create(_ context.Context, p P) (E, error) {
	if f.err != nil {
		var zero E
		return zero, f.err
	}
	f.created = append(f.created, p)
	return f.createRes, nil
}

func (f *fakeResource[E, P]) Update(_ context.Context, id string, p P) (E, error) {
	if f.err != nil {
		var zero E
		return zero, f.err
	}
	if f.updated == nil {
		f.updated = map[string]P{}
	}
	f.updated[id] = p
	return f.updateRes, nil
}

func (f *fakeResource[E, P]) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLoader struct {
	lk normalize.Lookups
}

func (f fakeLoader) Lookups(context.Context, ...string) (normalize.Lookups, error) { return f.lk, nil }

type fakeUploader struct {
	url string
	err error
}

func (f fakeUploader) Upload(_ context.Context, kind storage.Kind, _ string, _ io.Reader) (storage.Result, error) {
	if f.err != nil {
		return storage.Result{}, f.err
	}
	return storage.Result{URL: f.url + "/" + string(kind)}, nil
}

func lookups() normalize.Lookups {
	return normalize.Lookups{
		Artists: normalize.NewLookup([]normalize.Option{{ID: "a1", Name: "Burna"}}),
		Genres:  normalize.NewLookup([]normalize.Option{{ID: "g1", Name: "Pop"}, {ID: "g2", Name: "Afrobeats"}}),
		Users:   normalize.NewLookup([]normalize.Option{{ID: "u1", Name: "Ada Obi"}}),
		Albums:  normalize.NewLookup([]normalize.Option{{ID: "alb1", Name: "Twice as Tall"}}),
	}
}

func TestAlbumCreateEndToEnd(t *testing.T) {
	res := &fakeResource[model.Album, model.AlbumPayload]{
		createRes: model.Album{ID: "alb7", Title: "Love, Damini"},
	}
	s := NewAlbumScreen(res, nil, fakeLoader{lookups()}, fakeUploader{url: "https://cdn"})
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.New(); err != nil {
		t.Fatal(err)
	}
	steps := []error{
		s.Update(func(f *normalize.AlbumForm) error { f.Title = "Love, Damini"; return nil }),
		s.SelectArtist("a1"),
		s.SelectGenre("g2"),
		s.SetDuration("3:45", normalize.UnitMinutes),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	plaque, err := NewPlaque("gold", "https://cdn/album/plaques/g.png", "$100-200")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddPlaque(plaque); err != nil {
		t.Fatal(err)
	}

	saved, err := s.Save(ctx)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.ID != "alb7" {
		t.Errorf("Expected saved id alb7, got %q", saved.ID)
	}
	if len(res.created) != 1 {
		t.Fatalf("Expected one create, got %d", len(res.created))
	}

	data, _ := json.Marshal(res.created[0])
	var body map[string]interface{}
	json.Unmarshal(data, &body)
	if body["artist"] != "a1" || body["genre"] != "g2" || body["duration"] != float64(225) {
		t.Errorf("Unexpected payload %s", data)
	}
	plaques := body["plaqueArray"].([]interface{})
	if len(plaques) != 1 {
		t.Fatalf("Expected one plaque, got %v", plaques)
	}
	p := plaques[0].(map[string]interface{})
	if p["plaque_type"] != "gold" || p["plaque_image_url"] != "https://cdn/album/plaques/g.png" || p["plaque_price_range"] != "$100-200" {
		t.Errorf("Expected plaque exactly as entered, got %v", p)
	}

	if s.State() != form.Idle {
		t.Errorf("Expected Idle after save, got %v", s.State())
	}
	if _, ok := s.Find("alb7"); !ok {
		t.Error("Expected saved album on the board")
	}
}

func TestTrackEditWithUnknownAlbum(t *testing.T) {
	res := &fakeResource[model.Track, model.TrackPayload]{
		items:     []model.Track{{ID: "t1", Title: "Last Last", Album: model.ByID("alb9"), DurationMs: 172000, TrackNumber: 3}},
		updateRes: model.Track{ID: "t1", Title: "Last Last", Album: model.ByID("alb9")},
	}
	s := NewTrackScreen(res, fakeLoader{lookups()}, nil)
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.Edit(ctx, "t1"); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	f := s.Form()
	if f.AlbumTitle != "" {
		t.Errorf("Expected placeholder album, got %q", f.AlbumTitle)
	}
	if f.DurationPreview != "2:52" {
		t.Errorf("Expected preview 2:52, got %s", f.DurationPreview)
	}

	if _, err := s.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := res.updated["t1"].Album; got != "alb9" {
		t.Errorf("Expected album alb9 kept, got %q", got)
	}
	if got := res.updated["t1"].TrackNumber; got != 3 {
		t.Errorf("Expected track number 3, got %d", got)
	}
}

func TestValidationBlocksNetwork(t *testing.T) {
	res := &fakeResource[model.Album, model.AlbumPayload]{}
	s := NewAlbumScreen(res, nil, fakeLoader{lookups()}, nil)
	s.Mount(context.Background())
	s.New()

	_, err := s.Save(context.Background())
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if len(res.created) != 0 {
		t.Error("Expected no create on validation failure")
	}
	if s.State() != form.Failed || !strings.Contains(s.Message(), "Album title is required") {
		t.Errorf("Expected inline validation message, got %v %q", s.State(), s.Message())
	}
	if !strings.Contains(s.Message(), "Artist is required") {
		t.Errorf("Expected artist requirement, got %q", s.Message())
	}
}

func TestBadDurationInputIsValidationError(t *testing.T) {
	res := &fakeResource[model.Album, model.AlbumPayload]{}
	s := NewAlbumScreen(res, nil, fakeLoader{lookups()}, nil)
	s.Mount(context.Background())
	s.New()
	s.Update(func(f *normalize.AlbumForm) error {
		f.Title = "X"
		f.Artist = model.ByID("a1")
		f.DurationInput = "3:99"
		f.DurationUnit = normalize.UnitMinutes
		return nil
	})
	_, err := s.Save(context.Background())
	var verr *form.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "duration" {
		t.Fatalf("Expected duration validation error, got %v", err)
	}
}

func TestSaveFailureKeepsInput(t *testing.T) {
	res := &fakeResource[model.Genre, model.GenrePayload]{err: &api.Error{Status: 409, Message: "Genre already exists"}}
	s := NewGenreScreen(res)
	s.Mount(context.Background())
	s.New()
	s.Update(func(f *normalize.GenreForm) error { f.Name = "Pop"; return nil })

	if _, err := s.Save(context.Background()); err == nil {
		t.Fatal("Expected error")
	}
	if s.State() != form.Failed || s.Message() != "Genre already exists" {
		t.Errorf("Expected Failed with server message, got %v %q", s.State(), s.Message())
	}
	if s.Form().Name != "Pop" {
		t.Errorf("Expected input kept, got %q", s.Form().Name)
	}
}

func TestCreateWithoutEntityReloadsList(t *testing.T) {
	res := &fakeResource[model.Genre, model.GenrePayload]{}
	s := NewGenreScreen(res)
	s.Mount(context.Background())
	s.New()
	s.Update(func(f *normalize.GenreForm) error { f.Name = "Soul"; return nil })
	res.items = []model.Genre{{ID: "g9", Name: "Soul"}}

	if _, err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if res.lists != 2 {
		t.Errorf("Expected list reload, got %d list calls", res.lists)
	}
	if _, ok := s.Find("g9"); !ok {
		t.Error("Expected reloaded genre on the board")
	}
}

func TestDeleteGateFlow(t *testing.T) {
	res := &fakeResource[model.News, model.NewsPayload]{items: []model.News{{ID: "n1", Title: "Tour"}, {ID: "n2", Title: "Drop"}}}
	s := NewNewsScreen(res, nil)
	ctx := context.Background()
	s.Mount(ctx)

	if err := s.RequestDelete("missing"); err == nil {
		t.Error("Expected error for unknown id")
	}
	s.RequestDelete("n1")
	s.CancelDelete()
	if err := s.ConfirmDelete(ctx); err == nil {
		t.Error("Expected error after cancel")
	}
	if len(res.deleted) != 0 {
		t.Error("Expected no API call after cancel")
	}

	s.RequestDelete("n2")
	if err := s.ConfirmDelete(ctx); err != nil {
		t.Fatal(err)
	}
	if len(res.deleted) != 1 || res.deleted[0] != "n2" {
		t.Errorf("Expected n2 deleted, got %v", res.deleted)
	}
	if len(s.Items()) != 1 {
		t.Errorf("Expected one remaining item, got %d", len(s.Items()))
	}
}

func TestUploadSetsFieldAndFailureKeepsForm(t *testing.T) {
	res := &fakeResource[model.Artist, model.ArtistPayload]{}
	s := NewArtistScreen(res, fakeLoader{lookups()}, fakeUploader{url: "https://cdn"})
	ctx := context.Background()
	s.Mount(ctx)

	if _, err := s.UploadProfilePicture(ctx, "me.png", strings.NewReader("x")); !errors.Is(err, form.ErrNotEditing) {
		t.Errorf("Expected ErrNotEditing before opening, got %v", err)
	}

	s.New()
	url, err := s.UploadProfilePicture(ctx, "me.png", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Form().ProfilePictureURL != url || url != "https://cdn/artist-profile" {
		t.Errorf("Expected profile URL set, got %q", s.Form().ProfilePictureURL)
	}

	failing := NewArtistScreen(res, fakeLoader{lookups()}, fakeUploader{err: &storage.UploadError{Message: "Bucket not found"}})
	failing.Mount(ctx)
	failing.New()
	failing.Update(func(f *normalize.ArtistForm) error { f.Name = "Tems"; return nil })
	_, err = failing.UploadCoverPhoto(ctx, "c.png", strings.NewReader("x"))
	if api.UserMessage(err) != "Bucket not found" {
		t.Errorf("Expected storage message, got %v", err)
	}
	if failing.State() != form.Editing || failing.Form().Name != "Tems" {
		t.Errorf("Expected form untouched after upload failure")
	}
}

func TestSelectByName(t *testing.T) {
	res := &fakeResource[model.Artist, model.ArtistPayload]{}
	s := NewArtistScreen(res, fakeLoader{lookups()}, nil)
	s.Mount(context.Background())
	s.New()

	if err := s.SelectGenre("afrobeats"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectUser("u1"); err != nil {
		t.Fatal(err)
	}
	f := s.Form()
	if f.Genre.ID() != "g2" || f.GenreName != "Afrobeats" || f.UserName != "Ada Obi" {
		t.Errorf("Unexpected selection %+v", f)
	}
	if err := s.SelectGenre("Polka"); err == nil {
		t.Error("Expected error for unknown genre")
	}
	if err := s.SelectGenre(""); err != nil || !s.Form().Genre.IsZero() {
		t.Errorf("Expected empty selection to clear, got %v", err)
	}
}

func TestPlaqueEditing(t *testing.T) {
	s := NewAlbumScreen(&fakeResource[model.Album, model.AlbumPayload]{}, nil, fakeLoader{lookups()}, nil)
	s.Mount(context.Background())
	s.New()

	if err := s.AddPlaque(model.Plaque{Type: "bronze", ImageURL: "u"}); err == nil {
		t.Error("Expected unknown plaque type rejected")
	}
	if err := s.AddPlaque(model.Plaque{Type: "gold"}); err == nil {
		t.Error("Expected missing image rejected")
	}
	s.AddPlaque(model.Plaque{Type: "gold", ImageURL: "g"})
	s.AddPlaque(model.Plaque{Type: "silver", ImageURL: "s"})
	if err := s.RemovePlaque(0); err != nil {
		t.Fatal(err)
	}
	if err := s.RemovePlaque(5); err == nil {
		t.Error("Expected out of range error")
	}
	if got := s.Form().Plaques; len(got) != 1 || got[0].Type != "silver" {
		t.Errorf("Unexpected plaques %v", got)
	}
}

func TestEditAlbumKeepsStoredPlaques(t *testing.T) {
	stored := []model.Plaque{{Type: "Gold"}, {Type: "Multi-Platinum", ImageURL: "https://cdn/old.png"}}
	res := &fakeResource[model.Album, model.AlbumPayload]{
		items: []model.Album{{
			ID:      "alb1",
			Title:   "Twice as Tall",
			Artist:  model.Resolved("a1", "Burna"),
			Plaques: stored,
		}},
		updateRes: model.Album{ID: "alb1", Title: "Twice as Tall (Deluxe)"},
	}
	s := NewAlbumScreen(res, nil, fakeLoader{lookups()}, nil)
	ctx := context.Background()
	if err := s.Mount(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Edit(ctx, "alb1"); err != nil {
		t.Fatal(err)
	}
	s.Update(func(f *normalize.AlbumForm) error {
		f.Title = "Twice as Tall (Deluxe)"
		return nil
	})

	if _, err := s.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got := res.updated["alb1"].Plaques
	if len(got) != 2 || got[0].Type != "Gold" || got[1].Type != "Multi-Platinum" {
		t.Errorf("Expected stored plaques sent back unchanged, got %v", got)
	}
}

func TestPlaqueTypeIgnoresCase(t *testing.T) {
	tests := []struct {
		plaqueType string
		wantErr    bool
	}{
		{"gold", false},
		{"Gold", false},
		{" SAPPHIRE ", false},
		{"platinum", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := NewPlaque(tt.plaqueType, "https://cdn/p.png", "")
		if (err != nil) != tt.wantErr {
			t.Errorf("NewPlaque(%q) error = %v, wantErr %v", tt.plaqueType, err, tt.wantErr)
		}
	}
	s := NewAlbumScreen(&fakeResource[model.Album, model.AlbumPayload]{}, nil, nil, nil)
	s.New()
	if err := s.AddPlaque(model.Plaque{Type: "Crimson", ImageURL: "c"}); err != nil {
		t.Errorf("Expected mixed-case type accepted, got %v", err)
	}
}

type fakePlaques struct {
	album model.Album
	calls []string
}

func (f *fakePlaques) AddPlaque(_ context.Context, id string, _ model.Plaque) (model.Album, error) {
	f.calls = append(f.calls, "add:"+id)
	return f.album, nil
}

func (f *fakePlaques) UpdatePlaque(_ context.Context, id string, _ int, _ model.Plaque) (model.Album, error) {
	f.calls = append(f.calls, "update:"+id)
	return f.album, nil
}

func (f *fakePlaques) DeletePlaque(_ context.Context, id string, _ int) (model.Album, error) {
	f.calls = append(f.calls, "delete:"+id)
	return f.album, nil
}

func TestSavedPlaqueUpdatesBoard(t *testing.T) {
	res := &fakeResource[model.Album, model.AlbumPayload]{items: []model.Album{{ID: "alb1", Title: "Twice as Tall"}}}
	plaques := &fakePlaques{album: model.Album{ID: "alb1", Title: "Twice as Tall", Plaques: []model.Plaque{{Type: "gold", ImageURL: "g"}}}}
	s := NewAlbumScreen(res, plaques, fakeLoader{lookups()}, nil)
	ctx := context.Background()
	s.Mount(ctx)

	if _, err := s.AddSavedPlaque(ctx, "alb1", model.Plaque{Type: "gold", ImageURL: "g"}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Find("alb1")
	if len(got.Plaques) != 1 {
		t.Errorf("Expected board updated with plaque, got %v", got.Plaques)
	}

	plaques.album = model.Album{ID: "alb1"}
	if _, err := s.DeleteSavedPlaque(ctx, "alb1", 0); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Find("alb1")
	if got.Plaques == nil || len(got.Plaques) != 0 {
		t.Errorf("Expected empty plaque list, got %v", got.Plaques)
	}
	if strings.Join(plaques.calls, ",") != "add:alb1,delete:alb1" {
		t.Errorf("Unexpected calls %v", plaques.calls)
	}
}

func TestNewsLive(t *testing.T) {
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	res := &fakeResource[model.News, model.NewsPayload]{items: []model.News{
		{ID: "n1", IsPublished: true, ExpiresAt: "2026-12-01"},
		{ID: "n2", IsPublished: true, ExpiresAt: "2026-01-01"},
		{ID: "n3", IsPublished: false},
		{ID: "n4", IsPublished: true},
	}}
	s := NewNewsScreen(res, nil)
	s.Mount(context.Background())
	live := s.Live(now)
	if len(live) != 2 || live[0].ID != "n1" || live[1].ID != "n4" {
		t.Errorf("Unexpected live news %v", live)
	}
}

func TestValidateNewsExpiry(t *testing.T) {
	if err := ValidateNews(normalize.NewsForm{Title: "x", ExpiresAt: "soon"}); err == nil {
		t.Error("Expected invalid expiry rejected")
	}
	if err := ValidateNews(normalize.NewsForm{Title: "x", ExpiresAt: "2026-12-31"}); err != nil {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestEntityNormalize(t *testing.T) {
	p, err := Albums.Normalize(normalize.AlbumForm{
		Title:         "Outside",
		Artist:        model.ByID("a1"),
		DurationInput: "225",
		DurationUnit:  normalize.UnitSeconds,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Duration != 225 || p.Plaques == nil {
		t.Errorf("Unexpected payload %+v", p)
	}
	if _, err := Tracks.Normalize(normalize.TrackForm{Title: "x"}); err == nil {
		t.Error("Expected track without album rejected")
	}
}
