package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Makepad-fr/laundry/internal/expiry"
	"github.com/Makepad-fr/laundry/internal/imagefile"
	"github.com/Makepad-fr/laundry/internal/model"
	"github.com/Makepad-fr/laundry/internal/ui"
	"github.com/Makepad-fr/laundry/internal/view"
)

// -------------- rendering helpers --------------

func (a *app) statsLines(st model.AppState) []string {
	t := ui.Current()
	s := view.ProjectSummary(st)
	exp := expiry.Classify(st.Settings.ExpirationDate.Time, a.opt.Now())
	sev := ui.SeverityColor(s.WeightSeverity)
	return []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			ui.C(t.Title, "Laundry"),
			t.SymLaundry, s.ItemsInLaundry,
			t.SymCupboard, s.ItemsInCupboard,
			ui.C(t.Accent, "Total"), len(st.Items),
		),
		fmt.Sprintf("%s %s kg of %.1f kg   used %.1f kg",
			ui.C(t.Muted, "Remaining"),
			ui.C(sev, fmt.Sprintf("%.1f", s.CurrentWeight)), s.TotalWeight, s.WeightUsed),
		ui.C(sev, ui.WeightBar(s.CurrentWeight, s.TotalWeight, 28)),
		fmt.Sprintf("%s %d (avg %.1f kg)   %s %s",
			ui.C(t.Muted, "Loads left"), s.LoadsRemaining, s.AverageLoad,
			ui.C(t.Muted, "Expires"), ui.C(ui.SeverityColor(exp.Severity), exp.Label)),
	}
}

// itemLines numbers items by their position in the full list so indexes
// stay valid for toggle/edit/rm whatever the filter.
func itemLines(items []model.Item, f view.Filter) []string {
	shown := view.ProjectItemList(items, f)
	if msg := view.EmptyMessage(len(items), len(shown)); msg != "" {
		return []string{ui.Dim(msg)}
	}
	pos := make(map[string]int, len(items))
	for i, it := range items {
		pos[it.ID] = i + 1
	}
	t := ui.Current()
	out := make([]string, 0, len(shown))
	for _, it := range shown {
		photo := t.SymNoPhoto
		if it.HasImage() {
			photo = t.SymPhoto
		}
		color := t.Muted
		if it.Status == model.StatusInLaundry {
			color = t.Warning
		}
		line := fmt.Sprintf("%s %s %s %s  %s",
			ui.Dim(fmt.Sprintf("%2d.", pos[it.ID])),
			ui.StatusSymbol(it.Status), photo,
			ui.Truncate(it.Name, 60),
			ui.C(color, it.Status.Label()))
		if info := photoInfo(it); info != "" {
			line += "  " + ui.Dim(info)
		}
		out = append(out, line)
	}
	return out
}

func historyLines(h []model.LaundryRecord, now time.Time) []string {
	if len(h) == 0 {
		return []string{ui.Dim("No laundry history yet")}
	}
	out := make([]string, 0, len(h))
	for i, r := range h {
		out = append(out, fmt.Sprintf("%s %-12s %6.1f kg  %s %d items  %s",
			ui.Dim(fmt.Sprintf("%2d.", i+1)),
			r.Date.Pretty(), r.Weight,
			ui.Current().SymLaundry, r.ItemsCount,
			ui.Dim("logged "+humanize.RelTime(r.Timestamp, now, "ago", "from now"))))
	}
	return out
}

func settingsLines(s model.Settings) []string {
	t := ui.Current()
	return []string{
		ui.C(t.Title, "Settings"),
		fmt.Sprintf("Package weight   %.1f kg", s.TotalPackageWeight),
		fmt.Sprintf("Current weight   %.1f kg", s.CurrentWeight),
		fmt.Sprintf("Expiration date  %s", s.ExpirationDate.String()),
		fmt.Sprintf("Load range       %.1f - %.1f kg", s.MinLoadWeight, s.MaxLoadWeight),
	}
}

func expiryLine(d model.Date, s expiry.Status) string {
	return fmt.Sprintf("%s %s (%s)", ui.C(ui.SeverityColor(s.Severity), s.Label), ui.Dim("until"), d.Pretty())
}

// photoInfo is the attachment type and size, e.g. "image/png, 12 KiB".
func photoInfo(it model.Item) string {
	if !it.HasImage() {
		return ""
	}
	return imagefile.MediaType(it.Image) + ", " + humanize.IBytes(uint64(imagefile.Size(it.Image)))
}
