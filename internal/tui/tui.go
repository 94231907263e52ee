// Package tui is the interactive Bubble Tea screen over a task store.
package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

// EmptyInputNotice is the blocking message shown for a blank submission.
const EmptyInputNotice = "Oops! You need to enter something."

// listItem adapts a task to bubbles/list.Item
type listItem struct {
	task model.Task
}

func (i listItem) FilterValue() string { return i.task.Text }

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
	t := ui.Current()
	box := t.Muted.Render(t.BoxUnchecked)
	text := it.task.Text
	if it.task.Done {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type keyMap struct {
	add, toggle, remove, filter, sort, quit key.Binding
}

var keys = keyMap{
	add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	remove: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	filter: key.NewBinding(key.WithKeys("tab", "1", "2", "3"), key.WithHelp("tab/1-3", "filter")),
	sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the Bubble Tea model. Every mutation goes through the store and
// the list is re-derived right after.
type Model struct {
	store *store.Store
	list  list.Model
	input textinput.Model

	adding bool   // inline add is active
	notice string // blocking notice; must be dismissed before anything else

	width, height int
}

// New builds the screen for s.
func New(s *store.Store) Model {
	w, h := widthHeight()

	l := list.New(nil, itemDelegate{}, w-4, listHeight(h, false))
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.KeyMap.Quit.SetEnabled(false)
	extra := func() []key.Binding {
		return []key.Binding{keys.add, keys.toggle, keys.remove, keys.filter, keys.sort, keys.quit}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to get done?"
	ti.CharLimit = 0

	m := Model{store: s, list: l, input: ti, width: w, height: h}
	m.refresh()
	return m
}

// Run starts the program on the alt screen and blocks until the user quits.
func Run(s *store.Store) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.resize()
		return m, nil
	}

	km, isKey := msg.(tea.KeyMsg)

	if m.notice != "" {
		if isKey {
			switch km.String() {
			case "enter", "esc", " ":
				m.notice = ""
			case "ctrl+c":
				return m, tea.Quit
			}
		}
		return m, nil
	}

	if m.adding {
		if isKey {
			switch km.String() {
			case "enter":
				return m.submit()
			case "esc":
				m.adding = false
				m.input.SetValue("")
				m.input.Blur()
				m.resize()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if isKey {
		switch {
		case key.Matches(km, keys.quit):
			return m, tea.Quit
		case key.Matches(km, keys.add):
			m.adding = true
			m.input.SetValue("")
			m.resize()
			cmd := m.input.Focus()
			return m, cmd
		case key.Matches(km, keys.toggle):
			if it, ok := m.list.SelectedItem().(listItem); ok {
				m.store.ToggleDone(it.task.ID)
				m.refresh()
			}
			return m, nil
		case key.Matches(km, keys.remove):
			if it, ok := m.list.SelectedItem().(listItem); ok {
				m.store.Delete(it.task.ID)
				m.refresh()
			}
			return m, nil
		case key.Matches(km, keys.filter):
			m.store.SetFilterMode(nextFilter(m.store.FilterMode(), km.String()))
			m.refresh()
			return m, nil
		case key.Matches(km, keys.sort):
			m.store.SetSortMode(m.store.SortMode().Next())
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func nextFilter(cur model.FilterMode, pressed string) model.FilterMode {
	switch pressed {
	case "1":
		return model.FilterAll
	case "2":
		return model.FilterActive
	case "3":
		return model.FilterDone
	}
	return cur.Next()
}

// submit adds the input as a task. A blank input raises the blocking notice
// and stays in the field untouched.
func (m Model) submit() (tea.Model, tea.Cmd) {
	task, err := m.store.Add(m.input.Value())
	if errors.Is(err, store.ErrEmptyText) {
		m.notice = EmptyInputNotice
		return m, nil
	}
	m.input.SetValue("")
	m.input.Blur()
	m.adding = false
	m.resize()
	m.refresh()
	m.selectID(task.ID)
	return m, nil
}

// refresh re-derives the visible list from the store.
func (m *Model) refresh() {
	derived := m.store.View()
	items := make([]list.Item, 0, len(derived))
	for _, t := range derived {
		items = append(items, listItem{task: t})
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) selectID(id int64) {
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.task.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) resize() {
	m.list.SetSize(m.width-4, listHeight(m.height, m.adding))
}

// header, selectors, panel border and help take the rest
func listHeight(h int, adding bool) int {
	lh := h - 8
	if adding {
		lh -= 4
	}
	if lh < 3 {
		lh = 3
	}
	return lh
}

// Visible returns the tasks currently listed, in display order.
func (m Model) Visible() []model.Task {
	out := make([]model.Task, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li.task)
		}
	}
	return out
}

// Notice returns the blocking notice, if any.
func (m Model) Notice() string { return m.notice }

// Adding reports whether the inline add field is open.
func (m Model) Adding() bool { return m.adding }

// InputValue is the pending text in the add field.
func (m Model) InputValue() string { return m.input.Value() }

func (m Model) View() string {
	t := ui.Current()
	done, pending := m.store.Stats()

	var b strings.Builder
	b.WriteString(ui.Header(done, pending))
	b.WriteString("\n")
	b.WriteString(t.Muted.Render(ui.ProgressBar(done, done+pending, 28)))
	b.WriteString("\n")
	b.WriteString(m.selectors())
	b.WriteString("\n\n")

	if len(m.list.Items()) == 0 {
		b.WriteString(t.Muted.Italic(true).Render(view.EmptyMessage))
		b.WriteString("\n\n")
		b.WriteString(t.Help.Render("a add • tab filter • s sort • q quit"))
	} else {
		b.WriteString(m.list.View())
	}

	if m.adding {
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		b.WriteString("\n")
		b.WriteString(bar.Render("Add new item\n" + m.input.View()))
	}
	if m.notice != "" {
		box := lipgloss.NewStyle().Border(t.Border).BorderForeground(lipgloss.Color("9")).Padding(0, 1)
		b.WriteString("\n")
		b.WriteString(box.Render(t.Error.Render(m.notice) + "\n" + t.Help.Render("enter to dismiss")))
	}
	return ui.PanelString(b.String())
}

func (m Model) selectors() string {
	t := ui.Current()
	parts := make([]string, 0, len(model.FilterModes))
	for _, f := range model.FilterModes {
		label := strings.ToUpper(f.String())
		if f == m.store.FilterMode() {
			parts = append(parts, t.Selected.Render(" "+label+" "))
		} else {
			parts = append(parts, " "+label+" ")
		}
	}
	return strings.Join(parts, " ") + "   " +
		t.Accent.Render("Sort:") + " " + m.store.SortMode().Label()
}

func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	return w, h
}
