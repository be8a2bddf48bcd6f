// Package report writes a read-only spreadsheet of the inventory and history.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Makepad-fr/laundry/internal/expiry"
	"github.com/Makepad-fr/laundry/internal/model"
	"github.com/Makepad-fr/laundry/internal/view"
)

const (
	SheetSummary = "Summary"
	SheetItems   = "Items"
	SheetHistory = "History"
)

// Write renders st as an .xlsx workbook.
func Write(w io.Writer, st model.AppState, now time.Time) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetItems, SheetHistory} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	stats := view.ProjectSummary(st)
	exp := expiry.Classify(st.Settings.ExpirationDate.Time, now)
	summary := [][]any{
		{"Metric", "Value"},
		{"Items in laundry", stats.ItemsInLaundry},
		{"Items in cupboard", stats.ItemsInCupboard},
		{"Package weight (kg)", stats.TotalWeight},
		{"Remaining weight (kg)", stats.CurrentWeight},
		{"Weight used (kg)", stats.WeightUsed},
		{"Average load (kg)", stats.AverageLoad},
		{"Loads remaining", stats.LoadsRemaining},
		{"Expiration date", st.Settings.ExpirationDate.String()},
		{"Expiration", exp.Label},
		{"Generated", now.UTC().Format(time.RFC3339)},
	}
	if err := writeRows(f, SheetSummary, summary, header); err != nil {
		return err
	}

	items := [][]any{{"Name", "Status", "Added", "Photo"}}
	for _, it := range st.Items {
		photo := "no"
		if it.HasImage() {
			photo = "yes"
		}
		items = append(items, []any{it.Name, it.Status.Label(), it.DateAdded.UTC().Format("2006-01-02"), photo})
	}
	if err := writeRows(f, SheetItems, items, header); err != nil {
		return err
	}

	history := [][]any{{"Date", "Weight (kg)", "Items", "Submitted"}}
	for _, r := range st.LaundryHistory {
		history = append(history, []any{r.Date.String(), r.Weight, r.ItemsCount, r.Timestamp.UTC().Format(time.RFC3339)})
	}
	if err := writeRows(f, SheetHistory, history, header); err != nil {
		return err
	}

	for _, name := range []string{SheetSummary, SheetItems, SheetHistory} {
		if err := f.SetColWidth(name, "A", "D", 22); err != nil {
			return fmt.Errorf("col width: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, header int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
			return fmt.Errorf("%s header style: %w", sheet, err)
		}
	}
	return nil
}
