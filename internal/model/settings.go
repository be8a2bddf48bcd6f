package model

import "math"

// Settings is the detergent package budget and load profile.
type Settings struct {
	TotalPackageWeight float64 `json:"totalPackageWeight"`
	CurrentWeight      float64 `json:"currentWeight"`
	ExpirationDate     Date    `json:"expirationDate"`
	MinLoadWeight      float64 `json:"minLoadWeight"`
	MaxLoadWeight      float64 `json:"maxLoadWeight"`
}

// DefaultSettings mirrors a freshly opened 90 kg package.
func DefaultSettings() Settings {
	return Settings{
		TotalPackageWeight: 90,
		CurrentWeight:      45,
		ExpirationDate:     MustDate("2026-05-01"),
		MinLoadWeight:      2,
		MaxLoadWeight:      10,
	}
}

const weightScale = 1e6

// RoundWeight snaps a kg value to micrograms so add/subtract pairs cancel exactly.
func RoundWeight(kg float64) float64 {
	return math.Round(kg*weightScale) / weightScale
}
