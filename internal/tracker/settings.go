package tracker

import (
	"math"

	"github.com/Makepad-fr/laundry/internal/model"
)

// roundSettings snaps the budget weights to the stored precision.
func roundSettings(s model.Settings) model.Settings {
	s.TotalPackageWeight = model.RoundWeight(s.TotalPackageWeight)
	s.CurrentWeight = model.RoundWeight(s.CurrentWeight)
	return s
}

// ValidateSettings checks the budget and load profile as they would be stored.
func ValidateSettings(s model.Settings) error {
	s = roundSettings(s)
	fields := []struct {
		name string
		v    float64
	}{
		{"total package weight", s.TotalPackageWeight},
		{"current weight", s.CurrentWeight},
		{"min load weight", s.MinLoadWeight},
		{"max load weight", s.MaxLoadWeight},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid("%s is not a number", f.name)
		}
		if f.v < 0 {
			return invalid("%s is negative", f.name)
		}
	}
	if s.TotalPackageWeight == 0 {
		return invalid("total package weight must be positive")
	}
	if s.CurrentWeight > s.TotalPackageWeight {
		return invalid("current weight %.1f kg exceeds package total %.1f kg", s.CurrentWeight, s.TotalPackageWeight)
	}
	if s.MinLoadWeight > s.MaxLoadWeight {
		return invalid("min load weight %.1f kg is above max %.1f kg", s.MinLoadWeight, s.MaxLoadWeight)
	}
	if s.ExpirationDate.IsZero() {
		return invalid("expiration date is missing")
	}
	return nil
}

// UpdateSettings replaces the settings wholesale.
func (t *Tracker) UpdateSettings(s model.Settings) error {
	s = roundSettings(s)
	if err := ValidateSettings(s); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Clone()
	next.Settings = s
	if err := t.commit(next); err != nil {
		return err
	}
	t.log.Debug("settings updated", "total", s.TotalPackageWeight, "current", s.CurrentWeight,
		"expires", s.ExpirationDate.String())
	return nil
}
