package model

// AppState is everything that gets persisted.
// Items keep insertion order; LaundryHistory is newest first.
type AppState struct {
	Items          []Item          `json:"items"`
	Settings       Settings        `json:"settings"`
	LaundryHistory []LaundryRecord `json:"laundryHistory"`
}

// NewState returns an empty inventory with the given settings.
func NewState(s Settings) AppState {
	return AppState{
		Items:          []Item{},
		Settings:       s,
		LaundryHistory: []LaundryRecord{},
	}
}

// Clone copies the slices so callers can't mutate the owner's state.
func (s AppState) Clone() AppState {
	out := AppState{Settings: s.Settings}
	out.Items = append(make([]Item, 0, len(s.Items)), s.Items...)
	out.LaundryHistory = append(make([]LaundryRecord, 0, len(s.LaundryHistory)), s.LaundryHistory...)
	return out
}
