package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/laundry/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; fine for a local single-user tool.

// DefaultFileName is used when no path is configured.
const DefaultFileName = "laundry.json"

// ErrStorageDecode marks a state file that exists but can't be decoded.
// Load recovers from it; it is only visible through the logger.
var ErrStorageDecode = errors.New("storage decode")

// Store reads and writes the whole AppState as one document.
type Store struct {
	path     string
	defaults model.Settings
	log      *slog.Logger
}

// New returns a store rooted at path. An empty path means DefaultFileName in the working directory.
func New(path string, defaults model.Settings, log *slog.Logger) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{path: path, defaults: defaults, log: log}, nil
}

func (s *Store) Path() string { return s.path }

// Load never fails on bad content: a missing file or a corrupt one
// yields default settings and empty lists. Only I/O errors are returned.
func (s *Store) Load() (model.AppState, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewState(s.defaults), nil
		}
		return model.AppState{}, fmt.Errorf("read file: %w", err)
	}
	st, err := decode(b, s.defaults)
	if err != nil {
		s.log.Error("error loading data from storage", "path", s.path, "err", err)
		return model.NewState(s.defaults), nil
	}
	s.log.Debug("state loaded", "path", s.path, "items", len(st.Items), "records", len(st.LaundryHistory))
	return st, nil
}

// decode lays the stored settings over defaults so partial documents keep the rest.
func decode(b []byte, defaults model.Settings) (model.AppState, error) {
	var doc struct {
		Items          []model.Item          `json:"items"`
		Settings       json.RawMessage       `json:"settings"`
		LaundryHistory []model.LaundryRecord `json:"laundryHistory"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.AppState{}, fmt.Errorf("%w: %w", ErrStorageDecode, err)
	}
	st := model.NewState(defaults)
	if len(doc.Settings) > 0 && string(doc.Settings) != "null" {
		if err := json.Unmarshal(doc.Settings, &st.Settings); err != nil {
			return model.AppState{}, fmt.Errorf("%w: settings: %w", ErrStorageDecode, err)
		}
	}
	if doc.Items != nil {
		st.Items = doc.Items
	}
	if doc.LaundryHistory != nil {
		st.LaundryHistory = doc.LaundryHistory
	}
	return st, nil
}

// Save writes to a temp file in the same directory and renames it over the old one.
func (s *Store) Save(st model.AppState) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".laundry-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	s.log.Debug("state saved", "path", s.path)
	return nil
}
