// Package session persists the login blob returned by /auth/login and hands
// its bearer token to the API client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"catalogadmin/logger"
	"catalogadmin/model"
)

// ErrNoSession is returned by Store.Load when nobody is logged in.
var ErrNoSession = errors.New("no stored session")

// Store holds a single session blob under a fixed key.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Clear(ctx context.Context) error
}

// Blob is the part of the stored login response that is read back.
type Blob struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Decode parses a stored blob. A blob without a token is an error.
func Decode(raw []byte) (Blob, error) {
	var b Blob
	if err := json.Unmarshal(raw, &b); err != nil {
		return Blob{}, fmt.Errorf("malformed session blob: %w", err)
	}
	b.Token = strings.TrimSpace(b.Token)
	if b.Token == "" {
		return Blob{}, errors.New("session blob has no token")
	}
	return b, nil
}

// Source reads the bearer token from a Store and caches it until Invalidate,
// or until its max age passes. A missing or malformed blob yields an empty
// token, which sends requests unauthenticated; empty tokens are never cached
// so a later login is picked up on the next call.
type Source struct {
	store  Store
	maxAge time.Duration
	now    func() time.Time

	mu       sync.Mutex
	token    string
	loadedAt time.Time
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithMaxAge rereads the store once a cached token is older than d. Zero
// keeps it until Invalidate.
func WithMaxAge(d time.Duration) SourceOption {
	return func(s *Source) { s.maxAge = d }
}

func NewSource(store Store, opts ...SourceOption) *Source {
	s := &Source{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && (s.maxAge <= 0 || s.now().Sub(s.loadedAt) < s.maxAge) {
		return s.token, nil
	}
	s.token = ""

	raw, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSession):
		return "", nil
	case err != nil:
		return "", err
	}

	blob, err := Decode(raw)
	if err != nil {
		logger.Warn("ignoring stored session", logger.ErrorField(err))
		return "", nil
	}
	s.token, s.loadedAt = blob.Token, s.now()
	return s.token, nil
}

// Invalidate drops the cached token so the next call rereads the store.
func (s *Source) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
