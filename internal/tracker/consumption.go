package tracker

import (
	"math"

	"github.com/Makepad-fr/laundry/internal/model"
)

// SubmitLaundry spends weight from the package and records the load at the head of the history.
func (t *Tracker) SubmitLaundry(date model.Date, weight float64) (model.LaundryRecord, error) {
	if date.IsZero() {
		return model.LaundryRecord{}, invalid("submission date is missing")
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return model.LaundryRecord{}, invalid("weight must be a positive number")
	}
	weight = model.RoundWeight(weight)
	if weight <= 0 {
		return model.LaundryRecord{}, invalid("weight must be a positive number")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.state.Settings.CurrentWeight
	if weight > cur {
		return model.LaundryRecord{}, &InsufficientBudgetError{Requested: weight, Available: cur}
	}

	next := t.state.Clone()
	rec := model.LaundryRecord{
		ID:         t.freshID(next),
		Date:       date,
		Weight:     weight,
		ItemsCount: countStatus(next.Items, model.StatusInLaundry),
		Timestamp:  t.now().UTC(),
	}
	next.LaundryHistory = append([]model.LaundryRecord{rec}, next.LaundryHistory...)
	next.Settings.CurrentWeight = model.RoundWeight(cur - weight)
	if err := t.commit(next); err != nil {
		return model.LaundryRecord{}, err
	}
	t.log.Debug("laundry submitted", "id", rec.ID, "weight", weight, "remaining", next.Settings.CurrentWeight)
	return rec, nil
}

// DeleteRecord removes a submission and gives its weight back.
// The restored weight is not clamped to the package total.
func (t *Tracker) DeleteRecord(id string) (model.LaundryRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := -1
	for j, r := range t.state.LaundryHistory {
		if r.ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		return model.LaundryRecord{}, notFound("record", id)
	}
	next := t.state.Clone()
	rec := next.LaundryHistory[i]
	next.LaundryHistory = append(next.LaundryHistory[:i], next.LaundryHistory[i+1:]...)
	next.Settings.CurrentWeight = model.RoundWeight(next.Settings.CurrentWeight + rec.Weight)
	if err := t.commit(next); err != nil {
		return model.LaundryRecord{}, err
	}
	t.log.Debug("record deleted", "id", id, "restored", rec.Weight)
	return rec, nil
}
