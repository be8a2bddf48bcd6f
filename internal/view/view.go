// Package view holds pure projections from tracker state to renderable data.
// Nothing here mutates its inputs.
package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/Makepad-fr/laundry/internal/model"
)

// Filter selects which items a list shows.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterInLaundry  Filter = "laundry"
	FilterInCupboard Filter = "cupboard"
)

// Filters in the order the interactive view cycles through them.
var Filters = []Filter{FilterAll, FilterInLaundry, FilterInCupboard}

// ParseFilter is lenient about case; the empty string means all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "laundry", "l":
		return FilterInLaundry, nil
	case "cupboard", "c":
		return FilterInCupboard, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, laundry or cupboard)", s)
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	for i, x := range Filters {
		if x == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

func (f Filter) Label() string {
	switch f {
	case FilterInLaundry:
		return "In Laundry"
	case FilterInCupboard:
		return "In Cupboard"
	}
	return "All"
}

// ProjectItemList keeps the original relative order.
// FilterAll returns a copy of items.
func ProjectItemList(items []model.Item, f Filter) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if f == FilterAll || string(it.Status) == string(f) {
			out = append(out, it)
		}
	}
	return out
}

// EmptyMessage distinguishes an empty inventory from an empty filter result.
// It returns "" when there is something to show.
func EmptyMessage(total, shown int) string {
	switch {
	case total == 0:
		return "No items yet. Add your first clothing item!"
	case shown == 0:
		return "No items in this category"
	}
	return ""
}

// Stats are the summary figures shown above the list.
type Stats struct {
	ItemsInLaundry   int
	ItemsInCupboard  int
	TotalWeight      float64
	CurrentWeight    float64
	WeightUsed       float64
	AverageLoad      float64
	LoadsRemaining   int
	WeightSeverity   model.Severity
	PercentRemaining float64
}

// ProjectSummary computes Stats from scratch every call.
func ProjectSummary(st model.AppState) Stats {
	s := st.Settings
	var laundry, cupboard int
	for _, it := range st.Items {
		switch it.Status {
		case model.StatusInLaundry:
			laundry++
		case model.StatusInCupboard:
			cupboard++
		}
	}
	avg := AverageLoadWeight(s.MinLoadWeight, s.MaxLoadWeight)
	return Stats{
		ItemsInLaundry:   laundry,
		ItemsInCupboard:  cupboard,
		TotalWeight:      s.TotalPackageWeight,
		CurrentWeight:    s.CurrentWeight,
		WeightUsed:       model.RoundWeight(s.TotalPackageWeight - s.CurrentWeight),
		AverageLoad:      avg,
		LoadsRemaining:   LoadsRemaining(s.CurrentWeight, avg),
		WeightSeverity:   WeightIndicator(s.CurrentWeight, s.TotalPackageWeight),
		PercentRemaining: percent(s.CurrentWeight, s.TotalPackageWeight),
	}
}

func AverageLoadWeight(minLoad, maxLoad float64) float64 {
	return (minLoad + maxLoad) / 2
}

// LoadsRemaining is floor(current/avg). A non-positive average yields 0,
// and the result is never negative.
func LoadsRemaining(current, avg float64) int {
	if avg <= 0 || math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0
	}
	n := math.Floor(current / avg)
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// WeightIndicator bands the remaining share: <15% danger, <30% warning.
func WeightIndicator(current, total float64) model.Severity {
	if total <= 0 {
		return model.SeverityDanger
	}
	p := percent(current, total)
	switch {
	case p < 15:
		return model.SeverityDanger
	case p < 30:
		return model.SeverityWarning
	}
	return model.SeverityNormal
}

func percent(current, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return current / total * 100
}
