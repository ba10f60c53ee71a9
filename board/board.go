// Package board keeps a screen's in-memory list of entities and the
// confirm/cancel gate in front of deletes.
package board

import (
	"context"
	"errors"
	"sync"
)

var ErrNoPendingDelete = errors.New("no delete is awaiting confirmation")

// Board is an ordered list of entities keyed by id. Writes are applied
// optimistically from API responses; nothing is synchronized with other sessions.
type Board[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) string
}

func New[T any](id func(T) string) *Board[T] {
	return &Board[T]{id: id}
}

// Replace swaps in a freshly loaded list.
func (b *Board[T]) Replace(items []T) {
	b.mu.Lock()
	b.items = append([]T(nil), items...)
	b.mu.Unlock()
}

func (b *Board[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Board[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

func (b *Board[T]) Find(id string) (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i := b.index(id); i >= 0 {
		return b.items[i], true
	}
	var zero T
	return zero, false
}

// Upsert replaces the item with the same id in place, or appends it.
// It reports whether the item was new.
func (b *Board[T]) Upsert(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(b.id(item)); i >= 0 {
		b.items[i] = item
		return false
	}
	b.items = append(b.items, item)
	return true
}

func (b *Board[T]) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	return true
}

func (b *Board[T]) index(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range b.items {
		if b.id(item) == id {
			return i
		}
	}
	return -1
}

// DeleteGate holds at most one delete awaiting confirmation.
type DeleteGate struct {
	mu      sync.Mutex
	pending string
}

// Request arms the gate for id, replacing any earlier request.
func (g *DeleteGate) Request(id string) error {
	if id == "" {
		return errors.New("cannot delete an entity without an id")
	}
	g.mu.Lock()
	g.pending = id
	g.mu.Unlock()
	return nil
}

func (g *DeleteGate) Pending() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending, g.pending != ""
}

func (g *DeleteGate) Cancel() {
	g.mu.Lock()
	g.pending = ""
	g.mu.Unlock()
}

// Confirm runs del for the pending id. The gate clears on success and stays
// armed on failure so the user can retry or cancel.
func (g *DeleteGate) Confirm(ctx context.Context, del func(ctx context.Context, id string) error) (string, error) {
	g.mu.Lock()
	id := g.pending
	g.mu.Unlock()
	if id == "" {
		return "", ErrNoPendingDelete
	}
	if err := del(ctx, id); err != nil {
		return id, err
	}
	g.mu.Lock()
	if g.pending == id {
		g.pending = ""
	}
	g.mu.Unlock()
	return id, nil
}
