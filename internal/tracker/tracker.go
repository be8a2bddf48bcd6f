// Package tracker owns the laundry inventory, the detergent budget and the
// submission history. Every mutation is validated against a copy of the
// state, written through to storage, and only then committed in memory.
package tracker

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/laundry/internal/model"
	"github.com/Makepad-fr/laundry/internal/view"
)

// Storage persists the whole state at once.
type Storage interface {
	Load() (model.AppState, error)
	Save(model.AppState) error
}

type Tracker struct {
	mu    sync.RWMutex
	state model.AppState
	store Storage

	now   func() time.Time
	newID func() string
	log   *slog.Logger
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDFunc replaces the UUIDv7 generator.
func WithIDFunc(f func() string) Option {
	return func(t *Tracker) { t.newID = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// New loads the persisted state through store.
func New(store Storage, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store: store,
		now:   time.Now,
		newID: newUUID,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(t)
	}
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if st.Items == nil {
		st.Items = []model.Item{}
	}
	if st.LaundryHistory == nil {
		st.LaundryHistory = []model.LaundryRecord{}
	}
	t.state = st
	return t, nil
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// commit persists next and then makes it current. On error nothing changes.
// Callers hold t.mu.
func (t *Tracker) commit(next model.AppState) error {
	if err := t.store.Save(next); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	t.state = next
	return nil
}

// freshID never hands out an id already used by an item or record.
func (t *Tracker) freshID(st model.AppState) string {
	for {
		id := t.newID()
		if !idTaken(st, id) {
			return id
		}
	}
}

func idTaken(st model.AppState, id string) bool {
	if id == "" {
		return true
	}
	for _, it := range st.Items {
		if it.ID == id {
			return true
		}
	}
	for _, r := range st.LaundryHistory {
		if r.ID == id {
			return true
		}
	}
	return false
}

// State returns a copy of everything.
func (t *Tracker) State() model.AppState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Clone()
}

func (t *Tracker) Settings() model.Settings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Settings
}

// ExpirationDate is the read-only hook the expiry monitor polls.
func (t *Tracker) ExpirationDate() time.Time {
	return t.Settings().ExpirationDate.Time
}

// Items returns the filtered list in insertion order.
func (t *Tracker) Items(f view.Filter) []model.Item {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return view.ProjectItemList(t.state.Items, f)
}

// History is newest first.
func (t *Tracker) History() []model.LaundryRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append(make([]model.LaundryRecord, 0, len(t.state.LaundryHistory)), t.state.LaundryHistory...)
}

func (t *Tracker) Summary() view.Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return view.ProjectSummary(t.state)
}

func (t *Tracker) Item(id string) (model.Item, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i := indexOfItem(t.state.Items, id)
	if i < 0 {
		return model.Item{}, notFound("item", id)
	}
	return t.state.Items[i], nil
}

func (t *Tracker) Record(id string) (model.LaundryRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.state.LaundryHistory {
		if r.ID == id {
			return r, nil
		}
	}
	return model.LaundryRecord{}, notFound("record", id)
}

// ItemAt resolves a 1-based position in the filtered list.
func (t *Tracker) ItemAt(pos int, f view.Filter) (model.Item, error) {
	list := t.Items(f)
	if pos < 1 || pos > len(list) {
		return model.Item{}, fmt.Errorf("index out of range: have %d, got %d: %w", len(list), pos, ErrNotFound)
	}
	return list[pos-1], nil
}

// RecordAt resolves a 1-based position in the history, newest first.
func (t *Tracker) RecordAt(pos int) (model.LaundryRecord, error) {
	h := t.History()
	if pos < 1 || pos > len(h) {
		return model.LaundryRecord{}, fmt.Errorf("index out of range: have %d, got %d: %w", len(h), pos, ErrNotFound)
	}
	return h[pos-1], nil
}
