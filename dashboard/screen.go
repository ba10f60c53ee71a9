package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"catalogadmin/board"
	"catalogadmin/form"
	"catalogadmin/logger"
	"catalogadmin/normalize"
	"catalogadmin/storage"
)

// ImageUploader stores an image and returns where it lives. *storage.Uploader satisfies it.
type ImageUploader interface {
	Upload(ctx context.Context, kind storage.Kind, filename string, r io.Reader) (storage.Result, error)
}

var ErrNoUploader = errors.New("media uploads are not configured")

// screen is the behaviour every entity screen shares: a list, one open form
// and a delete gate.
type screen[E any, F normalize.Form[P], P any] struct {
	entity   Entity[E, F, P]
	res      Resource[E, P]
	loader   LookupLoader
	uploader ImageUploader

	board   *board.Board[E]
	form    *form.Controller[F]
	gate    board.DeleteGate
	lookups normalize.Lookups
}

func newScreen[E any, F normalize.Form[P], P any](entity Entity[E, F, P], res Resource[E, P], loader LookupLoader, uploader ImageUploader) *screen[E, F, P] {
	s := &screen[E, F, P]{
		entity:   entity,
		res:      res,
		loader:   loader,
		uploader: uploader,
		board:    board.New(entity.ID),
		form:     form.New[F](),
	}
	s.form.Observe(func(from, to form.State) {
		logger.Debug("form state",
			logger.String("entity", entity.Name),
			logger.String("from", from.String()),
			logger.String("to", to.String()))
	})
	return s
}

// Mount loads the lookups the form needs, then the list itself.
func (s *screen[E, F, P]) Mount(ctx context.Context) error {
	if len(s.entity.Lookups) > 0 && s.loader != nil {
		lk, err := s.loader.Lookups(ctx, s.entity.Lookups...)
		if err != nil {
			return fmt.Errorf("loading %s lookups: %w", s.entity.Name, err)
		}
		s.lookups = lk
	}
	return s.Reload(ctx)
}

// Reload refetches the list only.
func (s *screen[E, F, P]) Reload(ctx context.Context) error {
	items, err := s.res.List(ctx)
	if err != nil {
		return fmt.Errorf("loading %s list: %w", s.entity.Name, err)
	}
	s.board.Replace(items)
	logger.Debug("list loaded", logger.String("entity", s.entity.Name), logger.Int("count", len(items)))
	return nil
}

func (s *screen[E, F, P]) Items() []E { return s.board.Items() }

func (s *screen[E, F, P]) Find(id string) (E, bool) { return s.board.Find(id) }

func (s *screen[E, F, P]) Lookups() normalize.Lookups { return s.lookups }

func (s *screen[E, F, P]) State() form.State { return s.form.State() }

func (s *screen[E, F, P]) Form() F { return s.form.Model() }

// Message is the inline error for the open form.
func (s *screen[E, F, P]) Message() string { return s.form.Message() }

// New opens an empty form.
func (s *screen[E, F, P]) New() error {
	return s.form.Open(s.entity.Blank())
}

// Edit opens the form hydrated from the listed entity, fetching it when the
// list does not have it.
func (s *screen[E, F, P]) Edit(ctx context.Context, id string) error {
	e, ok := s.board.Find(id)
	if !ok {
		fetched, err := s.res.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("loading %s %s: %w", s.entity.Name, id, err)
		}
		e = fetched
	}
	f, err := s.entity.Hydrate(e, s.lookups)
	if err != nil {
		return err
	}
	return s.form.Open(f)
}

// Update edits the open working model.
func (s *screen[E, F, P]) Update(fn func(*F) error) error {
	return s.form.Update(fn)
}

func (s *screen[E, F, P]) Close() error { return s.form.Close() }

// Save validates and submits the open form. Creates append to the list and
// updates replace in place; a response without an entity reloads the list.
func (s *screen[E, F, P]) Save(ctx context.Context) (E, error) {
	var saved E
	prepared := func(f F) error {
		if s.entity.Prepare != nil {
			if err := s.entity.Prepare(&f); err != nil {
				return err
			}
		}
		if s.entity.Validate != nil {
			return s.entity.Validate(f)
		}
		return nil
	}
	err := s.form.Submit(ctx, prepared, func(ctx context.Context, f F) error {
		payload, err := s.entity.Normalize(f)
		if err != nil {
			return err
		}
		id := s.entity.FormID(f)
		if id == "" {
			saved, err = s.res.Create(ctx, payload)
		} else {
			saved, err = s.res.Update(ctx, id, payload)
		}
		if err != nil {
			return err
		}
		s.merge(ctx, saved)
		logger.Info("entity saved",
			logger.String("entity", s.entity.Name),
			logger.String("id", s.entity.ID(saved)),
			logger.Bool("created", id == ""))
		return nil
	})
	return saved, err
}

// merge applies a write response to the list.
func (s *screen[E, F, P]) merge(ctx context.Context, saved E) {
	if s.entity.ID(saved) != "" {
		s.board.Upsert(saved)
		return
	}
	if err := s.Reload(ctx); err != nil {
		logger.Warn("reloading list after save", logger.String("entity", s.entity.Name), logger.ErrorField(err))
	}
}

func (s *screen[E, F, P]) RequestDelete(id string) error {
	if _, ok := s.board.Find(id); !ok {
		return fmt.Errorf("%s %q is not in the list", s.entity.Name, id)
	}
	return s.gate.Request(id)
}

func (s *screen[E, F, P]) PendingDelete() (string, bool) { return s.gate.Pending() }

func (s *screen[E, F, P]) CancelDelete() { s.gate.Cancel() }

// ConfirmDelete deletes the pending entity and drops it from the list.
func (s *screen[E, F, P]) ConfirmDelete(ctx context.Context) error {
	id, err := s.gate.Confirm(ctx, s.res.Delete)
	if err != nil {
		return err
	}
	s.board.Remove(id)
	logger.Info("entity deleted", logger.String("entity", s.entity.Name), logger.String("id", id))
	return nil
}

// upload stores an image and hands its URL to apply. A failed upload leaves
// the form untouched so the user can retry or save without the image.
func (s *screen[E, F, P]) upload(ctx context.Context, kind storage.Kind, filename string, r io.Reader, apply func(*F, string)) (string, error) {
	if s.uploader == nil {
		return "", ErrNoUploader
	}
	switch s.form.State() {
	case form.Submitting:
		return "", form.ErrBusy
	case form.Editing, form.Failed:
	default:
		return "", form.ErrNotEditing
	}
	res, err := s.uploader.Upload(ctx, kind, filename, r)
	if err != nil {
		return "", err
	}
	if apply != nil {
		if err := s.form.Update(func(f *F) error { apply(f, res.URL); return nil }); err != nil {
			return "", err
		}
	}
	return res.URL, nil
}

// selectRef picks a reference by id, or by display name when no id matches.
func selectRef(lk normalize.Lookup, what, value string) (refChoice, error) {
	if value == "" {
		return refChoice{}, nil
	}
	if name, ok := lk.Name(value); ok {
		return refChoice{id: value, name: name}, nil
	}
	if id, ok := lk.IDByName(value); ok {
		name, _ := lk.Name(id)
		return refChoice{id: id, name: name}, nil
	}
	return refChoice{}, fmt.Errorf("unknown %s %q", what, value)
}

type refChoice struct {
	id   string
	name string
}
