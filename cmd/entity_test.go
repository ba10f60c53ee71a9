package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalogadmin/dashboard"
	"catalogadmin/model"
	"catalogadmin/normalize"
)

func TestOverlayFileKeepsMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "album.yaml")
	content := `title: Love, Damini
artist: a1
duration_input: "3:45"
duration_unit: minutes
plaqueArray:
  - plaque_type: gold
    plaque_image_url: https://cdn/album/plaques/g.png
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	f := normalize.AlbumForm{ID: "alb7", Publisher: "Spaceship", Genre: model.ByID("g2")}
	if err := overlayFile(path, &f); err != nil {
		t.Fatalf("overlayFile() error = %v", err)
	}
	if f.ID != "alb7" || f.Publisher != "Spaceship" || f.Genre.ID() != "g2" {
		t.Errorf("Expected untouched keys kept, got %+v", f)
	}
	if f.Title != "Love, Damini" || f.Artist.ID() != "a1" || f.DurationInput != "3:45" {
		t.Errorf("Expected file keys applied, got %+v", f)
	}
	if len(f.Plaques) != 1 || f.Plaques[0].Type != "gold" {
		t.Errorf("Expected one plaque, got %v", f.Plaques)
	}
}

func TestOverlayFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("title: [unclosed"), 0o600)

	var f normalize.GenreForm
	if err := overlayFile(bad, &f); err == nil {
		t.Error("Expected parse error")
	}
	if err := overlayFile(filepath.Join(dir, "missing.yaml"), &f); err == nil {
		t.Error("Expected missing file error")
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, nil, 0o600)
	f.Name = "Pop"
	if err := overlayFile(empty, &f); err != nil || f.Name != "Pop" {
		t.Errorf("Expected empty file to change nothing, got %v %q", err, f.Name)
	}
}

func TestPrintYAMLUsesWireNames(t *testing.T) {
	var buf bytes.Buffer
	f := normalize.TrackForm{ID: "t1", Title: "Last Last", Album: model.ByID("alb9"), DurationMs: 172000, DurationPreview: "2:52", TrackNumber: 1}
	if err := printYAML(&buf, f); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"album: alb9", "durationMs: 172000", "duration_preview:", "2:52", "title: Last Last"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestErrorText(t *testing.T) {
	if got := errorText(os.ErrNotExist); got != os.ErrNotExist.Error() {
		t.Errorf("Expected plain error text, got %q", got)
	}
}

type genreStore struct {
	items   []model.Genre
	created []model.GenrePayload
	updated map[string]model.GenrePayload
}

func (g *genreStore) List(context.Context) ([]model.Genre, error) { return g.items, nil }

func (g *genreStore) Get(_ context.Context, id string) (model.Genre, error) {
	for _, it := range g.items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.Genre{}, errors.New("not found")
}

func (g *genreStore) Create(_ context.Context, p model.GenrePayload) (model.Genre, error) {
	g.created = append(g.created, p)
	return model.Genre{ID: "g9", Name: p.Name}, nil
}

func (g *genreStore) Update(_ context.Context, id string, p model.GenrePayload) (model.Genre, error) {
	if g.updated == nil {
		g.updated = map[string]model.GenrePayload{}
	}
	g.updated[id] = p
	return model.Genre{ID: id, Name: p.Name}, nil
}

func (g *genreStore) Delete(context.Context, string) error { return nil }

func runGenre(t *testing.T, store *genreStore, args ...string) (string, error) {
	t.Helper()
	e := entityCommands[model.Genre, normalize.GenreForm, *dashboard.GenreScreen]{
		use:    "genre",
		open:   func() *dashboard.GenreScreen { return dashboard.NewGenreScreen(store) },
		id:     func(g model.Genre) string { return g.ID },
		formID: dashboard.Genres.FormID,
		label:  func(g model.Genre) string { return g.Name },
	}
	c := e.command()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.ExecuteContext(context.Background())
	return out.String(), err
}

func writeForm(t *testing.T, v interface{}) string {
	t.Helper()
	var buf bytes.Buffer
	if err := printYAML(&buf, v); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "form.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSaveRejectsFormForAnotherEntity(t *testing.T) {
	shown := writeForm(t, normalize.GenreForm{ID: "g1", Name: "Pop"})

	tests := []struct {
		name string
		args []string
	}{
		{"create from a shown form", []string{"create", "-f", shown}},
		{"update another id", []string{"update", "g2", "-f", shown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &genreStore{items: []model.Genre{{ID: "g1", Name: "Pop"}, {ID: "g2", Name: "Afrobeats"}}}
			if _, err := runGenre(t, store, tt.args...); err == nil {
				t.Fatal("Expected id mismatch error")
			}
			if len(store.created) != 0 || len(store.updated) != 0 {
				t.Errorf("Expected no write, got created=%v updated=%v", store.created, store.updated)
			}
		})
	}
}

func TestSaveWithFormFile(t *testing.T) {
	store := &genreStore{items: []model.Genre{{ID: "g1", Name: "Pop"}}}

	out, err := runGenre(t, store, "update", "g1", "-f", writeForm(t, normalize.GenreForm{ID: "g1", Name: "Pop Rock"}))
	if err != nil {
		t.Fatalf("update error = %v", err)
	}
	if store.updated["g1"].Name != "Pop Rock" || !strings.Contains(out, "Updated genre g1") {
		t.Errorf("Unexpected update %v, output %q", store.updated, out)
	}

	out, err = runGenre(t, store, "create", "-f", writeForm(t, normalize.GenreForm{Name: "Highlife"}))
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if len(store.created) != 1 || store.created[0].Name != "Highlife" || !strings.Contains(out, "Created genre g9") {
		t.Errorf("Unexpected create %v, output %q", store.created, out)
	}
}
