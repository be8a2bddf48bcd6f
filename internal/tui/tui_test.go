package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/laundry/internal/model"
	"github.com/Makepad-fr/laundry/internal/store/jsonstore"
	"github.com/Makepad-fr/laundry/internal/tracker"
	"github.com/Makepad-fr/laundry/internal/view"
)

func newModel(t *testing.T, names ...string) (Model, *tracker.Tracker) {
	t.Helper()
	store, err := jsonstore.New(filepath.Join(t.TempDir(), "laundry.json"), model.DefaultSettings(), nil)
	require.NoError(t, err)
	tr, err := tracker.New(store)
	require.NoError(t, err)
	for _, n := range names {
		_, err := tr.AddItem(n, model.StatusInCupboard, "")
		require.NoError(t, err)
	}
	return New(tr, view.FilterAll, time.Minute), tr
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestToggleSelected(t *testing.T) {
	m, tr := newModel(t, "Shirt", "Pants")

	m = press(t, m, " ")
	items := tr.Items(view.FilterAll)
	assert.Equal(t, model.StatusInLaundry, items[0].Status)
	assert.Equal(t, model.StatusInCupboard, items[1].Status)
	assert.Contains(t, m.flash, "Shirt")
}

func TestAddItemInline(t *testing.T) {
	m, tr := newModel(t)

	m = press(t, m, "a", "Socks", "enter")
	items := tr.Items(view.FilterAll)
	require.Len(t, items, 1)
	assert.Equal(t, "Socks", items[0].Name)
	assert.Equal(t, model.StatusInLaundry, items[0].Status)
	assert.Equal(t, modeBrowse, m.mode)

	m = press(t, m, "a", "tab", "Towel", "enter")
	items = tr.Items(view.FilterAll)
	require.Len(t, items, 2)
	assert.Equal(t, model.StatusInCupboard, items[1].Status)
	assert.Len(t, m.list.Items(), 2)
}

func TestAddEmptyNameStaysInInput(t *testing.T) {
	m, tr := newModel(t)

	m = press(t, m, "a", "enter")
	assert.Equal(t, modeAdd, m.mode)
	assert.Equal(t, "Name cannot be empty", m.err)
	assert.Empty(t, tr.Items(view.FilterAll))

	m = press(t, m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestRenameSelected(t *testing.T) {
	m, tr := newModel(t, "Shrt")

	m = press(t, m, "e", "!", "enter")
	items := tr.Items(view.FilterAll)
	assert.Equal(t, "Shrt!", items[0].Name)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, tr := newModel(t, "Shirt", "Pants")

	m = press(t, m, "d", "n")
	assert.Len(t, tr.Items(view.FilterAll), 2)
	assert.Equal(t, modeBrowse, m.mode)

	m = press(t, m, "d", "x")
	assert.Equal(t, modeConfirmDelete, m.mode)
	m = press(t, m, "y")
	items := tr.Items(view.FilterAll)
	require.Len(t, items, 1)
	assert.Equal(t, "Pants", items[0].Name)
	assert.Len(t, m.list.Items(), 1)
}

func TestFilterCycles(t *testing.T) {
	m, tr := newModel(t, "Shirt", "Pants")
	_, err := tr.ToggleStatus(tr.Items(view.FilterAll)[1].ID)
	require.NoError(t, err)

	m = press(t, m, "f")
	assert.Equal(t, view.FilterInLaundry, m.filter)
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "Pants", m.list.Items()[0].(listItem).Name)

	m = press(t, m, "f")
	assert.Equal(t, view.FilterInCupboard, m.filter)
	m = press(t, m, "a", "Hat", "enter")
	assert.Equal(t, model.StatusInCupboard, tr.Items(view.FilterAll)[2].Status)

	m = press(t, m, "f")
	assert.Equal(t, view.FilterAll, m.filter)
	assert.Len(t, m.list.Items(), 3)
}

func TestTickRefreshesExpiry(t *testing.T) {
	m, tr := newModel(t)
	exp := tr.ExpirationDate()
	m.now = func() time.Time { return exp.Add(-36 * time.Hour) }

	next, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	got := next.(Model)
	assert.Equal(t, "1d 12h left", got.exp.Label)
	assert.Equal(t, model.SeverityDanger, got.exp.Severity)
}

func TestViewRenders(t *testing.T) {
	m, _ := newModel(t)
	assert.Contains(t, m.View(), "No items yet")

	m, _ = newModel(t, "Shirt")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := next.(Model).View()
	assert.True(t, strings.Contains(out, "Shirt"))
	assert.Contains(t, out, "expires:")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
