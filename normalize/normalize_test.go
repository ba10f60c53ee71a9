package normalize

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"catalogadmin/model"
)

func testLookups() Lookups {
	return Lookups{
		Artists: NewLookup([]Option{{ID: "a1", Name: "Burna"}, {ID: "a2", Name: "Tems"}}),
		Genres:  NewLookup([]Option{{ID: "g1", Name: "Pop"}, {ID: "g2", Name: "Afrobeats"}}),
		Users:   NewLookup([]Option{{ID: "u1", Name: "Ada Obi"}}),
		Albums:  NewLookup([]Option{{ID: "alb1", Name: "Twice as Tall"}}),
	}
}

func encode(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return out
}

func TestAlbumCreateScenario(t *testing.T) {
	form := AlbumForm{
		Title:  "Love, Damini",
		Artist: model.Resolved("a1", "Burna"),
		Genre:  model.ByID("g2"),
		Plaques: []model.Plaque{
			{Type: "gold", ImageURL: "https://cdn.example.com/album/plaques/gold.png", PriceRange: "100-200"},
		},
	}
	if err := form.SetDuration("3:45", UnitMinutes); err != nil {
		t.Fatalf("SetDuration() error = %v", err)
	}

	body := encode(t, form.ToPayload())
	if body["artist"] != "a1" {
		t.Errorf("Expected artist a1, got %v", body["artist"])
	}
	if body["genre"] != "g2" || body["genre_id"] != "g2" {
		t.Errorf("Expected genre and genre_id g2, got %v / %v", body["genre"], body["genre_id"])
	}
	if body["duration"] != float64(225) {
		t.Errorf("Expected duration 225, got %v", body["duration"])
	}
	plaques, ok := body["plaqueArray"].([]interface{})
	if !ok || len(plaques) != 1 {
		t.Fatalf("Expected one plaque, got %v", body["plaqueArray"])
	}
	if p := plaques[0].(map[string]interface{}); p["plaque_type"] != "gold" {
		t.Errorf("Expected gold plaque, got %v", p["plaque_type"])
	}
	for _, key := range []string{"release_date", "cover_art", "description", "publisher"} {
		if _, present := body[key]; present {
			t.Errorf("Expected empty %s to be omitted", key)
		}
	}
}

func TestAlbumPayloadAlwaysHasPlaqueArray(t *testing.T) {
	body := encode(t, AlbumForm{Title: "Outside"}.ToPayload())
	plaques, ok := body["plaqueArray"].([]interface{})
	if !ok {
		t.Fatalf("Expected plaqueArray to be an array, got %v", body["plaqueArray"])
	}
	if len(plaques) != 0 {
		t.Errorf("Expected empty plaqueArray, got %v", plaques)
	}
}

func TestSetDurationKeepsFormOnError(t *testing.T) {
	form := AlbumForm{Duration: 225, DurationInput: "3:45", DurationUnit: UnitMinutes}
	if err := form.SetDuration("3:99", UnitMinutes); err == nil {
		t.Fatal("Expected error for seconds above 59")
	}
	if form.Duration != 225 || form.DurationInput != "3:45" {
		t.Errorf("Expected form unchanged, got %d %q", form.Duration, form.DurationInput)
	}

	form.SetDurationUnit(UnitSeconds)
	if form.DurationInput != "225" {
		t.Errorf("Expected input re-rendered as 225, got %q", form.DurationInput)
	}
}

func TestAlbumHydration(t *testing.T) {
	var album model.Album
	raw := `{"_id":"alb1","title":"Twice as Tall","artist":{"_id":"a1","name":"Burna"},"genre_id":"g2","duration":225,"release_date":"2020-08-14T00:00:00.000Z"}`
	if err := json.Unmarshal([]byte(raw), &album); err != nil {
		t.Fatal(err)
	}

	form, err := AlbumFormFrom(album, testLookups())
	if err != nil {
		t.Fatalf("AlbumFormFrom() error = %v", err)
	}
	if form.ArtistName != "Burna" || form.GenreName != "Afrobeats" {
		t.Errorf("Expected Burna/Afrobeats, got %s/%s", form.ArtistName, form.GenreName)
	}
	if form.DurationUnit != UnitMinutes || form.DurationInput != "3:45" {
		t.Errorf("Expected minutes 3:45, got %s %q", form.DurationUnit, form.DurationInput)
	}
	if form.ReleaseDate != "2020-08-14" {
		t.Errorf("Expected date-only release date, got %s", form.ReleaseDate)
	}
	if form.Plaques == nil {
		t.Error("Expected non-nil plaques after hydration")
	}

	p := form.ToPayload()
	if p.Artist != "a1" || p.Genre != "g2" || p.Duration != 225 {
		t.Errorf("Expected round trip to ids and seconds, got %+v", p)
	}
}

func TestArtistHydrationPlaceholders(t *testing.T) {
	artist := model.Artist{ID: "a9", Name: "Asake", Genre: model.ByID("g404"), User: model.ByID("u1")}
	form, err := ArtistFormFrom(artist, testLookups())
	if err != nil {
		t.Fatal(err)
	}
	if form.GenreName != UnknownGenre {
		t.Errorf("Expected %q, got %q", UnknownGenre, form.GenreName)
	}
	if form.Genre.ID() != "g404" {
		t.Errorf("Expected unknown genre id kept, got %q", form.Genre.ID())
	}
	if form.UserName != "Ada Obi" {
		t.Errorf("Expected user name Ada Obi, got %q", form.UserName)
	}

	body := encode(t, form.ToPayload())
	if body["genre"] != "g404" || body["user"] != "u1" {
		t.Errorf("Expected bare ids in payload, got %v", body)
	}
	for _, key := range []string{"bio", "firstName", "profilePictureUrl", "cover_photo"} {
		if _, present := body[key]; present {
			t.Errorf("Expected %s omitted, got %v", key, body[key])
		}
	}
}

func TestArtistOptionalWhitespaceOmitted(t *testing.T) {
	form := ArtistForm{Name: "Tems", Bio: "   ", FirstName: " Temilade "}
	p := form.ToPayload()
	if p.Bio != nil {
		t.Errorf("Expected blank bio omitted, got %q", *p.Bio)
	}
	if p.FirstName == nil || *p.FirstName != "Temilade" {
		t.Errorf("Expected trimmed first name, got %v", p.FirstName)
	}
}

func TestTrackUnknownAlbumKeepsID(t *testing.T) {
	track := model.Track{ID: "t1", Title: "Last Last", Album: model.ByID("alb9"), DurationMs: 225000}
	form, err := TrackFormFrom(track, testLookups())
	if err != nil {
		t.Fatal(err)
	}
	if form.AlbumTitle != UnknownAlbum {
		t.Errorf("Expected placeholder album title, got %q", form.AlbumTitle)
	}
	if form.DurationPreview != "3:45" {
		t.Errorf("Expected preview 3:45, got %s", form.DurationPreview)
	}

	p := form.ToPayload()
	if p.Album != "alb9" {
		t.Errorf("Expected album alb9 preserved, got %q", p.Album)
	}
	if p.TrackNumber != 1 {
		t.Errorf("Expected track number default 1, got %d", p.TrackNumber)
	}
}

func TestTrackAlbumMatchedByTitle(t *testing.T) {
	track := model.Track{ID: "t2", Title: "Alone", Album: model.Resolved("", "twice as tall")}
	form, err := TrackFormFrom(track, testLookups())
	if err != nil {
		t.Fatal(err)
	}
	if got := form.ToPayload().Album; got != "alb1" {
		t.Errorf("Expected album matched by title to alb1, got %q", got)
	}
}

func TestTrackPayloadTrimsText(t *testing.T) {
	p := TrackForm{Title: "  Free Mind ", Producer: " Jae5 ", Writer: "  ", TrackNumber: 4}.ToPayload()
	if p.Title != "Free Mind" {
		t.Errorf("Expected trimmed title, got %q", p.Title)
	}
	if p.Producer == nil || *p.Producer != "Jae5" {
		t.Errorf("Expected trimmed producer, got %v", p.Producer)
	}
	if p.Writer != nil {
		t.Errorf("Expected blank writer omitted")
	}
	if p.TrackNumber != 4 {
		t.Errorf("Expected track number 4, got %d", p.TrackNumber)
	}
}

func TestNewsHydrationDateOnly(t *testing.T) {
	form, err := NewsFormFrom(model.News{ID: "n1", Title: "Tour", ExpiresAt: "2026-12-01T00:00:00.000Z"}, Lookups{})
	if err != nil {
		t.Fatal(err)
	}
	if form.ExpiresAt != "2026-12-01" {
		t.Errorf("Expected 2026-12-01, got %s", form.ExpiresAt)
	}
	body := encode(t, NewsForm{Title: "Tour"}.ToPayload())
	if _, present := body["expires_at"]; present {
		t.Error("Expected empty expires_at omitted")
	}
	if body["is_published"] != false {
		t.Errorf("Expected is_published false, got %v", body["is_published"])
	}
}

func TestMissingIdentity(t *testing.T) {
	lk := testLookups()
	checks := []struct {
		name string
		err  error
	}{
		{"artist", second(ArtistFormFrom(model.Artist{Name: "x"}, lk))},
		{"album", second(AlbumFormFrom(model.Album{Title: "x"}, lk))},
		{"track", second(TrackFormFrom(model.Track{Title: "x"}, lk))},
		{"genre", second(GenreFormFrom(model.Genre{Name: "x"}, lk))},
		{"news", second(NewsFormFrom(model.News{Title: "x"}, lk))},
	}
	for _, c := range checks {
		if !errors.Is(c.err, ErrMissingIdentity) {
			t.Errorf("%s: expected ErrMissingIdentity, got %v", c.name, c.err)
		}
		if c.err != nil && !strings.Contains(c.err.Error(), c.name) {
			t.Errorf("%s: expected error to name the entity, got %v", c.name, c.err)
		}
	}
}

func second[T any](_ T, err error) error { return err }

func TestLookup(t *testing.T) {
	lk := NewLookup([]Option{{ID: "g1", Name: "Pop"}, {ID: "", Name: "skip"}, {ID: "g1", Name: "dup"}, {ID: "g2", Name: "pop"}})
	if lk.Len() != 2 {
		t.Fatalf("Expected 2 options, got %d", lk.Len())
	}
	if name, _ := lk.Name("g1"); name != "Pop" {
		t.Errorf("Expected first entry to win, got %s", name)
	}
	if id, _ := lk.IDByName("pop"); id != "g2" {
		t.Errorf("Expected exact match g2, got %s", id)
	}
	if id, _ := lk.IDByName("POP"); id != "g1" {
		t.Errorf("Expected case-insensitive match g1, got %s", id)
	}
	if _, ok := lk.IDByName(""); ok {
		t.Error("Expected blank name to miss")
	}
}
