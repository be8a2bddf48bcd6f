// Package tui is the interactive Bubble Tea view over a tracker.
// Every change goes straight through the tracker, so quitting never loses work.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/laundry/internal/expiry"
	"github.com/Makepad-fr/laundry/internal/model"
	"github.com/Makepad-fr/laundry/internal/tracker"
	"github.com/Makepad-fr/laundry/internal/view"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	model.Item
}

func (i listItem) Title() string { return i.Name }
func (i listItem) Description() string {
	return i.Status.Label()
}
func (i listItem) FilterValue() string { return i.Name }

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

type tickMsg time.Time

// Model is the Bubble Tea model. Build it with New.
type Model struct {
	tr     *tracker.Tracker
	list   list.Model
	ti     textinput.Model
	filter view.Filter

	mode      mode
	addStatus model.Status
	editID    string
	pending   model.Item

	flash string
	err   string

	exp      expiry.Status
	interval time.Duration
	now      func() time.Time

	width, height int
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render("☐")
	status := mutedStyle.Render("cupboard")
	if it.Status == model.StatusInLaundry {
		box = laundryStyle.Render("☑")
		status = laundryStyle.Render("laundry")
	}
	photo := " "
	if it.HasImage() {
		photo = accentStyle.Render("▣")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s  %s", prefix, box, photo, it.Name, status)
}

var (
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	filterBind = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
)

// New builds the model; interval is the expiration refresh period.
func New(tr *tracker.Tracker, f view.Filter, interval time.Duration) Model {
	if interval <= 0 {
		interval = expiry.DefaultInterval
	}
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	extra := func() []key.Binding { return []key.Binding{toggleBind, addBind, editBind, deleteBind, filterBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		tr:        tr,
		list:      l,
		ti:        ti,
		filter:    f,
		addStatus: model.StatusInLaundry,
		interval:  interval,
		now:       time.Now,
		width:     80,
		height:    24,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen.
func Run(tr *tracker.Tracker, f view.Filter, interval time.Duration) error {
	_, err := tea.NewProgram(New(tr, f, interval), tea.WithAltScreen()).Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// refresh rebuilds the list and the header from the tracker.
func (m *Model) refresh() {
	items := m.tr.Items(m.filter)
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{it})
	}
	idx := m.list.Index()
	m.list.SetItems(li)
	if idx >= len(li) {
		idx = len(li) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	s := m.tr.Summary()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %s kg",
		titleStyle.Render("Laundry"),
		laundryStyle.Render("in laundry"), s.ItemsInLaundry,
		successStyle.Render("in cupboard"), s.ItemsInCupboard,
		severityStyle(s.WeightSeverity).Render("left"), fmt.Sprintf("%.1f", s.CurrentWeight),
	)
	m.exp = expiry.Classify(m.tr.ExpirationDate(), m.now())
}

func (m Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.Item, true
}

func (m *Model) report(err error, okMsg string) {
	if err != nil {
		m.err, m.flash = err.Error(), ""
		if errors.Is(err, tracker.ErrValidation) {
			m.err = "Name cannot be empty"
		}
		return
	}
	m.err, m.flash = "", okMsg
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.exp = expiry.Classify(m.tr.ExpirationDate(), m.now())
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, m.listHeight())
		return m, nil
	}

	switch m.mode {
	case modeAdd, modeEdit:
		return m.updateInput(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}

	km, isKey := msg.(tea.KeyMsg)
	if !isKey || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch km.String() {
	case "q", "esc", "ctrl+c":
		if km.String() == "esc" && m.list.FilterState() == list.FilterApplied {
			break
		}
		return m, tea.Quit
	case " ":
		if it, ok := m.selected(); ok {
			got, err := m.tr.ToggleStatus(it.ID)
			m.report(err, fmt.Sprintf("%s → %s", got.Name, got.Status.Label()))
			m.refresh()
		}
		return m, nil
	case "a":
		m.mode = modeAdd
		m.addStatus = model.StatusInLaundry
		if m.filter == view.FilterInCupboard {
			m.addStatus = model.StatusInCupboard
		}
		m.ti.SetValue("")
		m.ti.Placeholder = "New item name..."
		m.err = ""
		cmd := m.ti.Focus()
		return m, cmd
	case "e":
		if it, ok := m.selected(); ok {
			m.mode = modeEdit
			m.editID = it.ID
			m.ti.SetValue(it.Name)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Item name..."
			m.err = ""
			cmd := m.ti.Focus()
			return m, cmd
		}
		return m, nil
	case "d":
		if it, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
			m.pending = it
		}
		return m, nil
	case "f":
		m.filter = m.filter.Next()
		m.list.ResetFilter()
		m.list.Select(0)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			name := strings.TrimSpace(m.ti.Value())
			adding := m.mode == modeAdd
			var (
				it  model.Item
				err error
			)
			if adding {
				it, err = m.tr.AddItem(name, m.addStatus, "")
			} else {
				it, err = m.tr.UpdateItem(m.editID, tracker.ItemUpdate{Name: &name})
			}
			if err != nil {
				m.report(err, "")
				return m, nil
			}
			if adding {
				m.report(nil, "added "+it.Name)
			} else {
				m.report(nil, "renamed to "+it.Name)
			}
			m.closeInput()
			m.refresh()
			if n := len(m.list.Items()); adding && n > 0 && m.list.FilterState() == list.Unfiltered {
				m.list.Select(n - 1)
			}
			return m, nil
		case "tab":
			if m.mode == modeAdd {
				m.addStatus = m.addStatus.Toggle()
			}
			return m, nil
		case "esc":
			m.closeInput()
			m.err = ""
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.editID = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "y", "Y":
		err := m.tr.DeleteItem(m.pending.ID)
		m.report(err, "deleted "+m.pending.Name)
		m.refresh()
	case "n", "N", "esc", "q":
		m.flash = ""
	default:
		return m, nil
	}
	m.mode = modeBrowse
	m.pending = model.Item{}
	return m, nil
}

func (m Model) listHeight() int {
	h := m.height - 6
	if m.mode != modeBrowse {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) tabs() string {
	var b strings.Builder
	for _, f := range view.Filters {
		st := tabStyle
		if f == m.filter {
			st = activeTab
		}
		b.WriteString(st.Render(f.Label()))
	}
	return b.String()
}

func (m Model) View() string {
	if w := m.width - 4; w > 0 {
		m.list.SetSize(w, m.listHeight())
	}

	header := fmt.Sprintf("%s   %s %s", m.tabs(), mutedStyle.Render("expires:"), severityStyle(m.exp.Severity).Render(m.exp.Label))

	var body string
	if len(m.list.Items()) == 0 {
		total := len(m.tr.Items(view.FilterAll))
		body = m.list.Title + "\n\n" + mutedStyle.Render(view.EmptyMessage(total, 0)) + "\n"
	} else {
		body = m.list.View()
	}

	content := header + "\n" + body
	switch m.mode {
	case modeAdd, modeEdit:
		title := "Add new item (" + m.addStatus.Label() + ", tab to switch)"
		if m.mode == modeEdit {
			title = "Rename item"
		}
		if m.err != "" {
			title += ": " + errorStyle.Render(m.err)
		}
		content += "\n" + panelStyle.Render(title+"\n"+m.ti.View())
	case modeConfirmDelete:
		content += "\n" + panelStyle.Render(fmt.Sprintf("Delete %q? %s", m.pending.Name, accentStyle.Render("[y/N]")))
	default:
		switch {
		case m.err != "":
			content += "\n" + errorStyle.Render("✖ "+m.err)
		case m.flash != "":
			content += "\n" + successStyle.Render("✔ "+m.flash)
		}
	}
	return panelStyle.Render(content)
}
