// ============================================================================
// resb - locale-aware resource bundles
// ============================================================================
//
// Package:     browser
// Description: Bubbletea model for exploring a resource bundle
// Author:      Mike Stoffels
// Created:     2026-10-11
// License:     MIT
// ============================================================================

package browser

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/resb/pkg/resource"
)

// Opener opens bundle roots; *bundle.Engine implements it
type Opener interface {
	Open(baseName, localeID string) (*resource.Node, error)
	Reset()
}

// entry is one row of the key list
type entry struct {
	label string
	node  *resource.Node
}

// crumb is one level of the navigation trail
type crumb struct {
	label   string
	node    *resource.Node
	entries []entry
	cursor  int
}

// Model is the Bubbletea model for the bundle browser
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	loading bool
	editing bool
	err     error

	// Components
	viewport viewport.Model
	spinner  spinner.Model
	input    textinput.Model
	help     help.Model

	// Bundle state
	opener   Opener
	baseName string
	localeID string
	root     *resource.Node
	trail    []crumb
	entries  []entry
	cursor   int
}

// Config holds browser configuration
type Config struct {
	Opener   Opener
	BaseName string
	Locale   string
}

// New creates a browser model
func New(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	in := textinput.New()
	in.Placeholder = "fr_CA"
	in.Prompt = "locale: "
	in.CharLimit = 64

	return Model{
		spinner:  sp,
		input:    in,
		help:     help.New(),
		opener:   cfg.Opener,
		baseName: cfg.BaseName,
		localeID: cfg.Locale,
		loading:  true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadBundle,
		tea.EnterAltScreen,
	)
}

func (m Model) loadBundle() tea.Msg {
	root, err := m.opener.Open(m.baseName, m.localeID)
	return bundleLoadedMsg{root: root, err: err}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleLocaleInput(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Title + trail
		footerHeight := 3 // Status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight - 2

		if !m.ready {
			m.viewport = viewport.New(m.detailWidth(), viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.detailWidth()
			m.viewport.Height = viewportHeight
		}
		m.updateDetail()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case bundleLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.root = msg.root
			m.localeID = msg.root.LocaleID()
			m.trail = nil
			m.entries = entriesFor(msg.root)
			m.cursor = 0
		}
		m.updateDetail()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input while browsing
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.updateDetail()
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			m.updateDetail()
		}

	case key.Matches(msg, keys.Enter):
		sel := m.selected()
		if sel == nil || !sel.node.Kind().IsContainer() {
			return m, nil
		}
		m.trail = append(m.trail, crumb{label: sel.label, node: sel.node, entries: m.entries, cursor: m.cursor})
		m.entries = entriesFor(sel.node)
		m.cursor = 0
		m.updateDetail()

	case key.Matches(msg, keys.Back):
		if len(m.trail) == 0 {
			return m, nil
		}
		last := m.trail[len(m.trail)-1]
		m.trail = m.trail[:len(m.trail)-1]
		m.entries = last.entries
		m.cursor = last.cursor
		m.updateDetail()

	case key.Matches(msg, keys.Locale):
		m.editing = true
		m.input.SetValue(m.localeID)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, keys.Reload):
		m.opener.Reset()
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadBundle)
	}

	return m, nil
}

// handleLocaleInput handles keyboard input while the locale prompt is open
func (m Model) handleLocaleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		m.localeID = strings.TrimSpace(m.input.Value())
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadBundle)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// entriesFor lists the children of n. Bundle roots list every key visible
// through the fallback chain.
func entriesFor(n *resource.Node) []entry {
	if n.IsTopLevel() {
		keys := n.KeySet()
		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			c, err := n.Get(k)
			if err != nil {
				continue
			}
			out = append(out, entry{label: k, node: c})
		}
		return out
	}

	children := n.Children()
	out := make([]entry, 0, len(children))
	for i, c := range children {
		label, ok := c.Key()
		if !ok {
			label = "[" + strconv.Itoa(i) + "]"
		}
		out = append(out, entry{label: label, node: c})
	}
	return out
}

func (m Model) selected() *entry {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return &m.entries[m.cursor]
}

func (m Model) listWidth() int {
	return max(20, m.width/3)
}

func (m Model) detailWidth() int {
	return max(20, m.width-m.listWidth()-8)
}

func (m *Model) updateDetail() {
	if !m.ready {
		return
	}
	sel := m.selected()
	if sel == nil {
		m.viewport.SetContent(KindStyle.Render("(empty)"))
		return
	}
	m.viewport.SetContent(describe(sel))
	m.viewport.GotoTop()
}

// describe renders the selected resource with its provenance
func describe(e *entry) string {
	var b strings.Builder
	n := e.node

	fmt.Fprintf(&b, "%s\n", LogoStyle.Render(e.label))
	fmt.Fprintf(&b, "%s %s\n", KindStyle.Render("kind:  "), n.Kind())
	fmt.Fprintf(&b, "%s %s\n\n", KindStyle.Render("bundle:"), InheritedStyle.Render(n.FullName()))

	switch n.Kind() {
	case resource.KindString:
		s, _ := n.Text()
		b.WriteString(s)
	case resource.KindInt32:
		i, _ := n.Int()
		b.WriteString(NumberStyle.Render(strconv.Itoa(int(i))))
	case resource.KindInt32Vector:
		v, _ := n.IntVector()
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = strconv.Itoa(int(x))
		}
		b.WriteString(NumberStyle.Render("[" + strings.Join(parts, ", ") + "]"))
	case resource.KindBinary:
		data, _ := n.Binary()
		fmt.Fprintf(&b, "%d bytes\n%s", len(data), hex.Dump(data))
	case resource.KindTable, resource.KindArray:
		fmt.Fprintf(&b, "%d entries, press enter to open", n.Len())
	default:
		b.WriteString(KindStyle.Render("(none)"))
	}
	return b.String()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading bundle..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	list := PanelStyle.Width(m.listWidth()).Height(m.viewport.Height).Render(m.renderList())
	detail := FocusedPanelStyle.Width(m.detailWidth()).Height(m.viewport.Height).Render(m.viewport.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, detail))
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))

	return b.String()
}

func (m Model) renderHeader() string {
	title := LogoStyle.Render(Logo) + " " + CrumbStyle.Render(m.baseName)
	if m.loading {
		title += " " + m.spinner.View()
	}

	parts := []string{m.localeID}
	for _, c := range m.trail {
		parts = append(parts, c.label)
	}
	return title + "\n" + CrumbStyle.Render(strings.Join(parts, " / "))
}

func (m Model) renderList() string {
	if len(m.entries) == 0 {
		return KindStyle.Render("(no keys)")
	}

	height := max(1, m.viewport.Height)
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(len(m.entries), start+height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := m.entries[i]
		label := e.label
		if e.node.Kind().IsContainer() {
			label += "/"
		}
		style := EntryStyle
		if i == m.cursor {
			style = SelectedEntryStyle
		}
		line := style.Render(label)
		if m.root != nil && e.node.LocaleID() != m.root.LocaleID() {
			line += " " + InheritedStyle.Render(displayLocale(e.node.LocaleID()))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	if m.editing {
		return StatusBarStyle.Render(m.input.View())
	}
	if m.err != nil {
		return StatusBarStyle.Render(ErrorStyle.Render("Error: ") + m.err.Error())
	}
	status := fmt.Sprintf("%d keys", len(m.entries))
	if m.root != nil {
		status += " | chain " + strings.Join(m.root.Chain(), " > ")
	}
	return StatusBarStyle.Render(status)
}

func displayLocale(id string) string {
	if id == "" {
		return "root"
	}
	return id
}
