package tracker

import (
	"strings"

	"github.com/Makepad-fr/laundry/internal/model"
)

// ItemUpdate is a partial edit: nil fields are left alone.
// An Image pointing at "" removes the photo.
type ItemUpdate struct {
	Name  *string
	Image *string
}

// AddItem appends a new item at the end of the list.
func (t *Tracker) AddItem(name string, status model.Status, image string) (model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Item{}, invalid("item name is empty")
	}
	if !status.Valid() {
		return model.Item{}, invalid("unknown status %q", status)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Clone()
	it := model.Item{
		ID:        t.freshID(next),
		Name:      name,
		Status:    status,
		Image:     image,
		DateAdded: t.now().UTC(),
	}
	next.Items = append(next.Items, it)
	if err := t.commit(next); err != nil {
		return model.Item{}, err
	}
	t.log.Debug("item added", "id", it.ID, "status", it.Status)
	return it, nil
}

func (t *Tracker) DeleteItem(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfItem(t.state.Items, id)
	if i < 0 {
		return notFound("item", id)
	}
	next := t.state.Clone()
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	if err := t.commit(next); err != nil {
		return err
	}
	t.log.Debug("item deleted", "id", id)
	return nil
}

// ToggleStatus flips laundry <-> cupboard and returns the updated item.
func (t *Tracker) ToggleStatus(id string) (model.Item, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfItem(t.state.Items, id)
	if i < 0 {
		return model.Item{}, notFound("item", id)
	}
	next := t.state.Clone()
	next.Items[i].Status = next.Items[i].Status.Toggle()
	if err := t.commit(next); err != nil {
		return model.Item{}, err
	}
	t.log.Debug("item toggled", "id", id, "status", next.Items[i].Status)
	return next.Items[i], nil
}

func (t *Tracker) UpdateItem(id string, u ItemUpdate) (model.Item, error) {
	var name string
	if u.Name != nil {
		name = strings.TrimSpace(*u.Name)
		if name == "" {
			return model.Item{}, invalid("item name is empty")
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOfItem(t.state.Items, id)
	if i < 0 {
		return model.Item{}, notFound("item", id)
	}
	next := t.state.Clone()
	if u.Name != nil {
		next.Items[i].Name = name
	}
	if u.Image != nil {
		next.Items[i].Image = *u.Image
	}
	if err := t.commit(next); err != nil {
		return model.Item{}, err
	}
	t.log.Debug("item updated", "id", id)
	return next.Items[i], nil
}

func countStatus(items []model.Item, s model.Status) int {
	n := 0
	for _, it := range items {
		if it.Status == s {
			n++
		}
	}
	return n
}

func indexOfItem(items []model.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
