package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps blobs in a small JSON document keyed like browser local
// storage: {"<key>": <blob>}. Other keys in the file are preserved.
type FileStore struct {
	path string
	key  string
}

func NewFileStore(path, key string) *FileStore {
	return &FileStore{path: path, key: key}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(_ context.Context) ([]byte, error) {
	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[f.key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNoSession
	}
	return raw, nil
}

func (f *FileStore) Save(_ context.Context, blob []byte) error {
	if !json.Valid(blob) {
		return errors.New("session blob is not valid JSON")
	}
	doc, err := f.read()
	if err != nil {
		return err
	}
	doc[f.key] = json.RawMessage(blob)
	return f.write(doc)
}

func (f *FileStore) Clear(_ context.Context) error {
	doc, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := doc[f.key]; !ok {
		return nil
	}
	delete(doc, f.key)
	return f.write(doc)
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", f.path, err)
	}
	return doc, nil
}

// write replaces the file through a rename so watchers never see a partial document.
func (f *FileStore) write(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
