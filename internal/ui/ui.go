// Package ui provides the terminal task browser.
// Uses Bubbletea for the event loop and Lipgloss for layout.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/taskboard/internal/tasks"
)

const deadlineLayout = "2006-01-02 15:04"

// ReloadMsg replaces the browsed service, typically after the seed file
// changed on disk. A non-nil Err keeps the current service and shows the
// error instead.
type ReloadMsg struct {
	Service *tasks.Service
	Err     error
}

// Model holds the TUI state. All service access happens inside Update.
type Model struct {
	ctx context.Context
	svc *tasks.Service

	// Display state
	width    int
	height   int
	quitting bool

	// Task list
	sortKey  tasks.SortKey
	rows     []*tasks.Task
	selected int

	// Search
	input     textinput.Model
	searching bool
	keyword   string

	// Status panel
	overview tasks.Overview
	next     *tasks.Task
	message  string
	isError  bool
	location *time.Location

	styles *Styles
}

// Styles holds lipgloss styles for the UI.
type Styles struct {
	// Panel borders
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style

	// Text styles
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style

	// Status line
	StatusOK    lipgloss.Style
	StatusError lipgloss.Style

	// Task list
	TaskSelected  lipgloss.Style
	TaskNormal    lipgloss.Style
	TaskCompleted lipgloss.Style

	// Help bar
	HelpKey  lipgloss.Style
	HelpText lipgloss.Style
}

// newStyles creates the default style set.
func newStyles() *Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#666", Dark: "#888"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	green := lipgloss.AdaptiveColor{Light: "#22863a", Dark: "#3fb950"}
	red := lipgloss.AdaptiveColor{Light: "#cb2431", Dark: "#f85149"}

	return &Styles{
		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight),

		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(subtle),

		Value: lipgloss.NewStyle().
			Bold(true),

		Highlight: lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(subtle),

		StatusOK: lipgloss.NewStyle().
			Foreground(green).
			Bold(true),

		StatusError: lipgloss.NewStyle().
			Foreground(red).
			Bold(true),

		TaskSelected: lipgloss.NewStyle().
			Background(highlight).
			Foreground(lipgloss.Color("#fff")).
			Bold(true),

		TaskNormal: lipgloss.NewStyle(),

		TaskCompleted: lipgloss.NewStyle().
			Foreground(subtle).
			Strikethrough(true),

		HelpKey: lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true),

		HelpText: lipgloss.NewStyle().
			Foreground(subtle),
	}
}

// Option configures a Model.
type Option func(*Model)

// WithSortKey sets the initial sort key.
func WithSortKey(key tasks.SortKey) Option {
	return func(m *Model) { m.sortKey = key }
}

// WithLocation sets the timezone deadlines are shown in.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) {
		if loc != nil {
			m.location = loc
		}
	}
}

// New creates a browser over svc.
func New(ctx context.Context, svc *tasks.Service, opts ...Option) *Model {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "keyword"
	input.CharLimit = 120

	m := &Model{
		ctx:      ctx,
		svc:      svc,
		width:    100,
		height:   24,
		sortKey:  tasks.DeadlineAsc,
		input:    input,
		location: time.Local,
		styles:   newStyles(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ReloadMsg:
		if msg.Err != nil {
			m.setError(fmt.Errorf("reload failed: %w", msg.Err))
			return m, nil
		}
		if msg.Service != nil {
			m.svc = msg.Service
			m.refresh()
			m.setInfo("Reloaded seed data")
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input while browsing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.rows)-1 {
			m.selected++
		}

	case "home", "g":
		m.selected = 0

	case "end", "G":
		if len(m.rows) > 0 {
			m.selected = len(m.rows) - 1
		}

	case "s":
		m.sortKey = m.sortKey.Next()
		m.refresh()
		m.setInfo("Sorted by " + m.sortKey.String())

	case "/":
		m.searching = true
		m.input.SetValue(m.keyword)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "esc":
		if m.keyword != "" {
			m.keyword = ""
			m.refresh()
			m.setInfo("Search cleared")
		}

	case "x":
		m.toggleSelected()

	case "d":
		m.deleteSelected()

	case "n":
		m.popNext()
	}

	return m, nil
}

// handleSearchKey processes keyboard input while the search box has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.keyword = strings.TrimSpace(m.input.Value())
		m.searching = false
		m.input.Blur()
		m.selected = 0
		m.refresh()
		if m.keyword != "" {
			m.setInfo(fmt.Sprintf("%d match(es) for %q", len(m.rows), m.keyword))
		}
		return m, nil

	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.Reset()
		return m, nil

	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) current() *tasks.Task {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return nil
	}
	return m.rows[m.selected]
}

func (m *Model) toggleSelected() {
	t := m.current()
	if t == nil {
		return
	}
	if err := m.svc.SetCompleted(t.ID(), !t.Completed); err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	state := "pending"
	if t.Completed {
		state = "done"
	}
	m.setInfo(fmt.Sprintf("Marked %q %s", t.Description, state))
}

func (m *Model) deleteSelected() {
	t := m.current()
	if t == nil {
		return
	}
	if err := m.svc.DeleteTask(t.ID()); err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	m.setInfo(fmt.Sprintf("Deleted %q", t.Description))
}

func (m *Model) popNext() {
	t, err := m.svc.PopScheduled()
	if errors.Is(err, tasks.ErrEmptyQueue) {
		m.setInfo("Nothing scheduled")
		return
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	m.setInfo(fmt.Sprintf("Next up: %s (due %s)", t.Description, m.formatDeadline(t.Deadline)))
}

// refresh recomputes the visible rows and the status panel from the service.
func (m *Model) refresh() {
	if m.svc == nil {
		m.rows = nil
		return
	}

	if m.keyword == "" {
		m.rows = m.svc.SortedTasks(m.sortKey)
	} else {
		criteria := tasks.NewCriteriaBuilder().WithKeyword(m.keyword).Build()
		found, err := m.svc.AdvancedSearch(criteria)
		if err != nil {
			m.setError(err)
			found = nil
		}
		view := tasks.NewCollectionFrom(found)
		view.Sort(m.sortKey)
		m.rows = view.Snapshot()
	}

	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	overview, err := m.svc.Overview(m.ctx)
	if err != nil {
		m.setError(err)
	}
	m.overview = overview

	m.next = nil
	if t, err := m.svc.NextScheduled(); err == nil {
		m.next = t
	}
}

func (m *Model) setInfo(text string) {
	m.message = text
	m.isError = false
}

func (m *Model) setError(err error) {
	m.message = err.Error()
	m.isError = true
}

func (m Model) formatDeadline(t time.Time) string {
	return t.In(m.location).Format(deadlineLayout)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	bodyHeight := m.height - 3 // help bar and padding
	if m.searching {
		bodyHeight--
	}
	rightWidth := m.width / 3
	if rightWidth < 30 {
		rightWidth = 30
	}
	leftWidth := m.width - rightWidth

	taskPanel := m.renderTaskPanel(leftWidth-4, bodyHeight-2)
	statusPanel := m.renderStatusPanel(rightWidth-4, bodyHeight-2)

	taskBorder := m.styles.ActiveBorder.Width(leftWidth - 2).Height(bodyHeight - 2)
	statusBorder := m.styles.InactiveBorder.Width(rightWidth - 2).Height(bodyHeight - 2)

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		taskBorder.Render(taskPanel),
		statusBorder.Render(statusPanel),
	)

	parts := []string{body}
	if m.searching {
		parts = append(parts, " "+m.input.View())
	}
	parts = append(parts, m.renderHelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTaskPanel renders the task list.
func (m Model) renderTaskPanel(width, height int) string {
	var b strings.Builder

	title := "Tasks"
	if m.keyword != "" {
		title = fmt.Sprintf("Tasks matching %q", m.keyword)
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		if m.keyword != "" {
			b.WriteString(m.styles.Muted.Render("No matching tasks"))
		} else {
			b.WriteString(m.styles.Muted.Render("No tasks"))
		}
		return b.String()
	}

	visible := height - 3
	if visible < 1 {
		visible = 1
	}

	scroll := 0
	if m.selected >= visible {
		scroll = m.selected - visible + 1
	}

	descWidth := width - 36
	if descWidth < 12 {
		descWidth = 12
	}

	for i := scroll; i < len(m.rows) && i < scroll+visible; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.selected, descWidth))
		b.WriteString("\n")
	}

	if len(m.rows) > visible {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf(" [%d/%d]", m.selected+1, len(m.rows))))
	}

	return b.String()
}

// renderRow renders one task line.
func (m Model) renderRow(t *tasks.Task, selected bool, descWidth int) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	desc := truncate(t.Description, descWidth)
	desc = fmt.Sprintf("%-*s", descWidth, desc)

	category := t.CategoryTitle()
	if category == "" {
		category = "-"
	}

	line := fmt.Sprintf("%s %s %s %-10s %s",
		check,
		t.Importance.Symbol(),
		desc,
		truncate(category, 10),
		m.formatDeadline(t.Deadline),
	)

	switch {
	case selected:
		return m.styles.TaskSelected.Render(line)
	case t.Completed:
		return accentBar(t.Importance) + m.styles.TaskCompleted.Render(line)
	case m.keyword != "" && tasks.ContainsFold(t.Description, m.keyword):
		return accentBar(t.Importance) + m.styles.Highlight.Render(line)
	default:
		return accentBar(t.Importance) + m.styles.TaskNormal.Render(line)
	}
}

func accentBar(i tasks.Importance) string {
	return lipgloss.NewStyle().Foreground(i.Accent()).Render("▌")
}

// renderStatusPanel renders counts, the next scheduled task and the sort key.
func (m Model) renderStatusPanel(width, height int) string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Overview"))
	b.WriteString("\n")

	writeField := func(label, value string) {
		b.WriteString(m.styles.Label.Render(label + ": "))
		b.WriteString(m.styles.Value.Render(value))
		b.WriteString("\n")
	}

	writeField("Total", fmt.Sprintf("%d", m.overview.Total))
	writeField("Incomplete", fmt.Sprintf("%d", m.overview.Incomplete))
	writeField("Sort", m.sortKey.String())
	if m.keyword != "" {
		writeField("Search", m.keyword)
	}
	b.WriteString("\n")

	b.WriteString(m.styles.Label.Render("Next up: "))
	if m.next != nil {
		b.WriteString(m.styles.Value.Render(truncate(m.next.Description, width-10)))
	} else {
		b.WriteString(m.styles.Muted.Render("None"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Categories"))
	b.WriteString("\n")
	for _, cc := range m.overview.ByCategory {
		b.WriteString(fmt.Sprintf(" %-14s %d\n", truncate(cc.Category.Title, 14), cc.Tasks))
	}
	if m.overview.Uncategorised > 0 {
		b.WriteString(fmt.Sprintf(" %-14s %d\n", "(none)", m.overview.Uncategorised))
	}
	b.WriteString("\n")

	for _, imp := range tasks.AllImportances() {
		b.WriteString(fmt.Sprintf(" %s %d\n", imp.Symbol(), m.overview.ByImportance[imp.Rank()]))
	}

	if m.message != "" {
		b.WriteString("\n")
		style := m.styles.StatusOK
		if m.isError {
			style = m.styles.StatusError
		}
		b.WriteString(style.Render(truncate(m.message, width)))
	}

	return b.String()
}

type helpItem struct {
	key  string
	desc string
}

var (
	browseHelp = []helpItem{
		{"j/k", "up/down"},
		{"s", "sort"},
		{"/", "search"},
		{"esc", "clear"},
		{"x", "done"},
		{"d", "delete"},
		{"n", "next"},
		{"q", "quit"},
	}
	searchHelp = []helpItem{
		{"enter", "apply"},
		{"esc", "cancel"},
	}
)

// renderHelpBar renders the help bar at the bottom.
func (m Model) renderHelpBar() string {
	items := browseHelp
	if m.searching {
		items = searchHelp
	}

	var parts []string
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s %s",
			m.styles.HelpKey.Render(item.key),
			m.styles.HelpText.Render(item.desc),
		))
	}

	return "  " + strings.Join(parts, "  |  ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Rows returns the tasks currently listed, in display order.
func (m Model) Rows() []*tasks.Task {
	out := make([]*tasks.Task, len(m.rows))
	copy(out, m.rows)
	return out
}

// Run starts the TUI.
func (m *Model) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Program returns a program for m, for callers that need to Send messages
// from other goroutines.
func (m *Model) Program(opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}
