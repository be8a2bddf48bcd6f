package ui

import (
	"strings"

	"github.com/Makepad-fr/laundry/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Warning, Error string
	SymLaundry, SymCupboard, SymPhoto, SymNoPhoto string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	BarFull, BarEmpty                             string
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Warning: "\033[93m", Error: "\033[91m",
			SymLaundry: "◼", SymCupboard: "◻", SymPhoto: "▣", SymNoPhoto: "·",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			BarFull: "█", BarEmpty: "░",
		}
	case "mono":
		disableColor = true
		current = Theme{
			SymLaundry: "[L]", SymCupboard: "[C]", SymPhoto: "(p)", SymNoPhoto: "   ",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			BarFull: "#", BarEmpty: ".",
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Warning: fgYellow, Error: fgRed,
			SymLaundry: "🧺", SymCupboard: "🏠", SymPhoto: "📷", SymNoPhoto: "  ",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			BarFull: "█", BarEmpty: "░",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// SeverityColor picks the palette entry for a severity band.
func SeverityColor(s model.Severity) string {
	switch s {
	case model.SeverityDanger:
		return current.Error
	case model.SeverityWarning:
		return current.Warning
	}
	return current.Success
}

// StatusSymbol is the list marker for an item status.
func StatusSymbol(s model.Status) string {
	if s == model.StatusInLaundry {
		return current.SymLaundry
	}
	return current.SymCupboard
}
