package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Makepad-fr/laundry/internal/model"
)

// Snapshot is the export document. History is deliberately not part of it.
type Snapshot struct {
	Items      []model.Item   `json:"items"`
	Settings   model.Settings `json:"settings"`
	ExportDate time.Time      `json:"exportDate"`
}

// BackupFileName is the default export name for the given day.
func BackupFileName(now time.Time) string {
	return "laundry-tracker-backup-" + now.UTC().Format("2006-01-02") + ".json"
}

// Export writes items and settings as indented JSON.
func (t *Tracker) Export(w io.Writer) error {
	t.mu.RLock()
	snap := Snapshot{
		Items:      append([]model.Item{}, t.state.Items...),
		Settings:   t.state.Settings,
		ExportDate: t.now().UTC(),
	}
	t.mu.RUnlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Import replaces the items and lays the imported settings over the current ones.
// Laundry history is kept as is. Nothing changes if the document is rejected.
func (t *Tracker) Import(r io.Reader) error {
	var doc struct {
		Items    *[]model.Item   `json:"items"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %w", ErrImportFormat, err)
	}
	if doc.Items == nil || len(doc.Settings) == 0 || string(doc.Settings) == "null" {
		return fmt.Errorf("%w: items and settings are required", ErrImportFormat)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Clone()
	settings := next.Settings
	if err := json.Unmarshal(doc.Settings, &settings); err != nil {
		return fmt.Errorf("%w: settings: %w", ErrImportFormat, err)
	}
	settings = roundSettings(settings)
	if err := ValidateSettings(settings); err != nil {
		return fmt.Errorf("%w: settings: %w", ErrImportFormat, err)
	}
	next.Settings = settings

	next.Items = make([]model.Item, 0, len(*doc.Items))
	seen := make(map[string]bool, len(*doc.Items))
	for i, it := range *doc.Items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			return fmt.Errorf("%w: item %d has no name", ErrImportFormat, i+1)
		}
		if !it.Status.Valid() {
			return fmt.Errorf("%w: item %d has unknown status %q", ErrImportFormat, i+1, it.Status)
		}
		if it.ID == "" || seen[it.ID] {
			it.ID = t.freshID(next)
		}
		if it.DateAdded.IsZero() {
			it.DateAdded = t.now().UTC()
		}
		seen[it.ID] = true
		next.Items = append(next.Items, it)
	}

	if err := t.commit(next); err != nil {
		return err
	}
	t.log.Info("data imported", "items", len(next.Items))
	return nil
}
