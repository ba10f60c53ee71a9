package board

import (
	"context"
	"errors"
	"testing"
)

type row struct {
	ID   string
	Name string
}

func rowID(r row) string { return r.ID }

func TestBoardUpsertAndRemove(t *testing.T) {
	b := New(rowID)
	b.Replace([]row{{"g1", "Pop"}, {"g2", "Jazz"}})

	if inserted := b.Upsert(row{"g2", "Smooth Jazz"}); inserted {
		t.Error("Expected update in place")
	}
	if inserted := b.Upsert(row{"g3", "Soul"}); !inserted {
		t.Error("Expected insert")
	}
	items := b.Items()
	if len(items) != 3 || items[1].Name != "Smooth Jazz" || items[2].ID != "g3" {
		t.Errorf("Unexpected items %v", items)
	}

	if !b.Remove("g1") {
		t.Error("Expected g1 removed")
	}
	if b.Remove("missing") {
		t.Error("Expected missing id to report false")
	}
	if _, ok := b.Find("g1"); ok {
		t.Error("Expected g1 gone")
	}
	if got, ok := b.Find("g3"); !ok || got.Name != "Soul" {
		t.Errorf("Expected to find g3, got %v", got)
	}
	if b.Len() != 2 {
		t.Errorf("Expected 2 items, got %d", b.Len())
	}
}

func TestBoardItemsIsACopy(t *testing.T) {
	b := New(rowID)
	b.Replace([]row{{"a1", "Burna"}})
	items := b.Items()
	items[0].Name = "changed"
	if got, _ := b.Find("a1"); got.Name != "Burna" {
		t.Error("Expected board unaffected by caller mutation")
	}
}

func TestDeleteGate(t *testing.T) {
	var g DeleteGate
	ctx := context.Background()

	if _, err := g.Confirm(ctx, func(context.Context, string) error { return nil }); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("Expected ErrNoPendingDelete, got %v", err)
	}
	if err := g.Request(""); err == nil {
		t.Error("Expected error for empty id")
	}

	g.Request("n1")
	g.Cancel()
	if _, ok := g.Pending(); ok {
		t.Error("Expected cancel to clear the gate")
	}

	g.Request("n2")
	failing := errors.New("server down")
	if _, err := g.Confirm(ctx, func(context.Context, string) error { return failing }); !errors.Is(err, failing) {
		t.Errorf("Expected delete error, got %v", err)
	}
	if id, ok := g.Pending(); !ok || id != "n2" {
		t.Error("Expected gate to stay armed after failure")
	}

	var deleted string
	id, err := g.Confirm(ctx, func(_ context.Context, id string) error { deleted = id; return nil })
	if err != nil || id != "n2" || deleted != "n2" {
		t.Errorf("Expected n2 deleted, got %q %q %v", id, deleted, err)
	}
	if _, ok := g.Pending(); ok {
		t.Error("Expected gate cleared after success")
	}
}
