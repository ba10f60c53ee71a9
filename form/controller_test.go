package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalogadmin/api"
)

type draft struct {
	Name string
}

func requireName(d draft) error {
	var c Checks
	return c.Required("name", "Name", d.Name).Err()
}

func TestHappyPath(t *testing.T) {
	c := New[draft]()
	var seen []string
	c.Observe(func(from, to State) { seen = append(seen, from.String()+">"+to.String()) })

	if err := c.Open(draft{}); err != nil {
		t.Fatal(err)
	}
	if err := c.Update(func(d *draft) error { d.Name = "Afrobeats"; return nil }); err != nil {
		t.Fatal(err)
	}

	var submitted draft
	err := c.Submit(context.Background(), requireName, func(_ context.Context, d draft) error {
		submitted = d
		return nil
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if submitted.Name != "Afrobeats" {
		t.Errorf("Expected submitted name, got %q", submitted.Name)
	}
	if c.State() != Idle {
		t.Errorf("Expected Idle after success, got %v", c.State())
	}
	if c.Model().Name != "" {
		t.Error("Expected model cleared after success")
	}
	want := "idle>editing,editing>submitting,submitting>succeeded,succeeded>idle"
	if got := strings.Join(seen, ","); got != want {
		t.Errorf("Transitions = %s, want %s", got, want)
	}
}

func TestValidationFailureSkipsNetwork(t *testing.T) {
	c := New[draft]()
	c.Open(draft{})

	called := false
	err := c.Submit(context.Background(), requireName, func(context.Context, draft) error {
		called = true
		return nil
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if called {
		t.Error("Expected no submit call on validation failure")
	}
	if c.State() != Failed || c.Message() != "Name is required" {
		t.Errorf("Expected Failed with inline message, got %v %q", c.State(), c.Message())
	}
}

func TestSubmitFailureKeepsModel(t *testing.T) {
	c := New[draft]()
	c.Open(draft{Name: "Pop"})

	err := c.Submit(context.Background(), requireName, func(context.Context, draft) error {
		return &api.Error{Status: 409, Message: "Genre already exists"}
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if c.State() != Failed {
		t.Errorf("Expected Failed, got %v", c.State())
	}
	if c.Model().Name != "Pop" {
		t.Errorf("Expected model kept, got %q", c.Model().Name)
	}
	if c.Message() != "Genre already exists" {
		t.Errorf("Expected server message inline, got %q", c.Message())
	}

	if err := c.Update(func(d *draft) error { d.Name = "K-Pop"; return nil }); err != nil {
		t.Fatal(err)
	}
	if c.State() != Editing || c.Message() != "" {
		t.Errorf("Expected Editing with cleared message, got %v %q", c.State(), c.Message())
	}

	if err := c.Submit(context.Background(), nil, func(context.Context, draft) error { return errors.New("dial tcp") }); err == nil {
		t.Fatal("Expected error")
	}
	if c.Message() != api.GenericFailure {
		t.Errorf("Expected generic fallback, got %q", c.Message())
	}
}

func TestBusyWhileSubmitting(t *testing.T) {
	c := New[draft]()
	c.Open(draft{Name: "Jazz"})

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Submit(context.Background(), nil, func(context.Context, draft) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	if c.State() != Submitting {
		t.Errorf("Expected Submitting, got %v", c.State())
	}
	if err := c.Submit(context.Background(), nil, func(context.Context, draft) error { return nil }); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy for second submit, got %v", err)
	}
	if err := c.Update(func(*draft) error { return nil }); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy for update, got %v", err)
	}
	if err := c.Close(); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy for close, got %v", err)
	}
	if err := c.Open(draft{}); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy for open, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit error = %v", err)
	}
}

func TestNotEditing(t *testing.T) {
	c := New[draft]()
	if err := c.Update(func(*draft) error { return nil }); !errors.Is(err, ErrNotEditing) {
		t.Errorf("Expected ErrNotEditing, got %v", err)
	}
	if err := c.Submit(context.Background(), nil, func(context.Context, draft) error { return nil }); !errors.Is(err, ErrNotEditing) {
		t.Errorf("Expected ErrNotEditing, got %v", err)
	}
}

func TestUpdateErrorLeavesModel(t *testing.T) {
	c := New[draft]()
	c.Open(draft{Name: "Soul"})
	err := c.Update(func(d *draft) error {
		d.Name = "half-written"
		return errors.New("invalid duration")
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if c.Model().Name != "Soul" {
		t.Errorf("Expected model unchanged, got %q", c.Model().Name)
	}
}

func TestCloseDiscards(t *testing.T) {
	c := New[draft]()
	c.Open(draft{Name: "Rock"})
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if c.State() != Idle || c.Model().Name != "" {
		t.Errorf("Expected Idle and empty model, got %v %q", c.State(), c.Model().Name)
	}
}

func TestChecksCollectsAll(t *testing.T) {
	var c Checks
	c.Required("title", "Title", " ").Required("artist", "Artist", "").Check(true, "x", "never")
	err := c.Err()
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("Expected two field errors, got %v", err)
	}
	if err.Error() != "Title is required; Artist is required" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
