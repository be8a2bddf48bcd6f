package model

import "time"

// Status says where a clothing item currently is.
type Status string

const (
	StatusInLaundry  Status = "laundry"
	StatusInCupboard Status = "cupboard"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusInLaundry || s == StatusInCupboard
}

// Toggle flips laundry <-> cupboard.
func (s Status) Toggle() Status {
	if s == StatusInLaundry {
		return StatusInCupboard
	}
	return StatusInLaundry
}

// Label is the human form used by list renderers.
func (s Status) Label() string {
	switch s {
	case StatusInLaundry:
		return "In Laundry"
	case StatusInCupboard:
		return "In Cupboard"
	}
	return string(s)
}

// ParseStatus accepts the stored values plus a few short aliases.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "laundry", "l", "dirty":
		return StatusInLaundry, true
	case "cupboard", "c", "clean":
		return StatusInCupboard, true
	}
	return "", false
}

// Item is one piece of clothing in the inventory.
// Image holds a data URL (data:image/...;base64,...) or is empty.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Image     string    `json:"image,omitempty"`
	DateAdded time.Time `json:"dateAdded"`
}

// HasImage reports whether a photo is attached.
func (it Item) HasImage() bool { return it.Image != "" }
