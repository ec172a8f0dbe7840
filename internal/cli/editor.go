package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tock/internal/aggregate"
	"github.com/alexanderramin/tock/internal/cli/formatter"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// runEditor opens the session editor on the given range and blocks until
// the user quits. A nil to keeps the range open up to the current time.
func runEditor(ctx context.Context, app *App, from time.Time, to *time.Time) error {
	_, err := tea.NewProgram(newEditorModel(ctx, app, from, to), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

type editorMode int

const (
	modeBrowse editorMode = iota
	modeConfirmDelete
	modeForm
)

type editorKeyMap struct {
	Add     key.Binding
	Start   key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultEditorKeys() editorKeyMap {
	return editorKeyMap{
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add session")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start timer")),
		Delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Start, k.Delete, k.Refresh, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type sessionsLoadedMsg struct {
	grouping *aggregate.Grouping
	err      error
}

// editorResultMsg reports the outcome of an add, start or delete.
type editorResultMsg struct {
	status string
	err    error
}

// editorModel lists the sessions of a range and issues create and delete
// calls through the same services as the CLI, so every ledger rule applies.
type editorModel struct {
	ctx      context.Context
	app      *App
	from, to time.Time

	// fixedTo is the --to bound. When nil, to follows the clock on every
	// reload so newly started sessions stay in view.
	fixedTo *time.Time

	sessions []*domain.Session
	timers   map[string]*domain.Timer

	table table.Model
	keys  editorKeyMap
	help  help.Model

	mode  editorMode
	form  *huh.Form
	draft *sessionDraft

	status string
	err    error
}

func newEditorModel(ctx context.Context, app *App, from time.Time, to *time.Time) *editorModel {
	t := table.New(
		table.WithColumns(editorColumns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	m := &editorModel{
		ctx:     ctx,
		app:     app,
		from:    from,
		fixedTo: to,
		timers:  map[string]*domain.Timer{},
		table:   t,
		keys:    defaultEditorKeys(),
		help:    help.New(),
	}
	m.to = m.upperBound()
	return m
}

func (m *editorModel) upperBound() time.Time {
	if m.fixedTo != nil {
		return *m.fixedTo
	}
	return m.app.now()
}

func editorColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 8},
		{Title: "TIMER", Width: 18},
		{Title: "START", Width: 19},
		{Title: "END", Width: 19},
		{Title: "DURATION", Width: 9},
	}
}

func (m *editorModel) Init() tea.Cmd {
	return m.load()
}

func (m *editorModel) load() tea.Cmd {
	m.to = m.upperBound()
	ctx, app, from, to := m.ctx, m.app, m.from, m.to
	return func() tea.Msg {
		g, err := app.Reports.SessionsInRange(ctx, from, to, true)
		return sessionsLoadedMsg{grouping: g, err: err}
	}
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case sessionsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setSessions(msg.grouping)
		return m, nil

	case editorResultMsg:
		m.err = msg.err
		m.status = msg.status
		if msg.err != nil {
			return m, nil
		}
		return m, m.load()
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m.updateBrowse(msg)
}

func (m *editorModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Refresh):
		m.status, m.err = "", nil
		return m, m.load()
	case key.Matches(keyMsg, m.keys.Add):
		return m, m.openForm(draftManual)
	case key.Matches(keyMsg, m.keys.Start):
		return m, m.openForm(draftStart)
	case key.Matches(keyMsg, m.keys.Delete):
		if m.selected() != nil {
			m.mode = modeConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *editorModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.mode = modeBrowse
		return m, m.deleteSelected()
	case key.Matches(keyMsg, m.keys.Cancel):
		m.mode = modeBrowse
	}
	return m, nil
}

func (m *editorModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		m.status = "Cancelled."
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		draft := *m.draft
		m.closeForm()
		return m, m.applyDraft(draft)
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *editorModel) openForm(kind draftKind) tea.Cmd {
	m.draft = &sessionDraft{kind: kind}
	m.form = newDraftForm(m.app, m.draft)
	m.mode = modeForm
	m.status, m.err = "", nil
	return m.form.Init()
}

func (m *editorModel) closeForm() {
	m.mode = modeBrowse
	m.form = nil
	m.draft = nil
}

// applyDraft sends a completed draft to the ledger.
func (m *editorModel) applyDraft(d sessionDraft) tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		now, loc := app.now(), app.loc()

		if d.kind == draftStart {
			var at *time.Time
			if strings.TrimSpace(d.start) != "" {
				t, err := ParseTime(d.start, now, loc)
				if err != nil {
					return editorResultMsg{err: err}
				}
				at = &t
			}
			res, err := app.Sessions.Start(ctx, d.timer, at)
			if err != nil {
				return editorResultMsg{err: explainLedgerError(err, app)}
			}
			return editorResultMsg{status: "Started " + res.Timer.Name}
		}

		start, err := ParseTime(d.start, now, loc)
		if err != nil {
			return editorResultMsg{err: err}
		}
		end, err := ParseTime(d.end, now, loc)
		if err != nil {
			return editorResultMsg{err: err}
		}
		res, err := app.Sessions.CreateManual(ctx, d.timer, start, end)
		if err != nil {
			return editorResultMsg{err: err}
		}
		return editorResultMsg{status: fmt.Sprintf("Recorded %s for %s",
			formatter.FormatDuration(res.Session.Duration(now)), res.Timer.Name)}
	}
}

func (m *editorModel) deleteSelected() tea.Cmd {
	s := m.selected()
	if s == nil {
		return nil
	}
	ctx, app, id := m.ctx, m.app, s.ID
	return func() tea.Msg {
		if err := app.Sessions.Delete(ctx, id); err != nil {
			return editorResultMsg{err: err}
		}
		return editorResultMsg{status: "Deleted session " + id[:min(8, len(id))]}
	}
}

func (m *editorModel) selected() *domain.Session {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		return nil
	}
	return m.sessions[i]
}

func (m *editorModel) setSessions(g *aggregate.Grouping) {
	m.sessions = g.All()
	m.timers = g.Timers

	now, loc := m.app.now(), m.app.loc()
	rows := make([]table.Row, 0, len(m.sessions))
	for _, s := range m.sessions {
		end := "running"
		if s.End != nil {
			end = formatter.Stamp(*s.End, loc)
		}
		name := "(deleted)"
		if t := m.timers[s.TimerID]; t != nil {
			name = t.Name
		}
		rows = append(rows, table.Row{
			s.ID[:min(8, len(s.ID))],
			name,
			formatter.Stamp(s.Start, loc),
			end,
			formatter.FormatDuration(s.Duration(now)),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *editorModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Sessions") + "\n")
	b.WriteString(formatter.Dim(fmt.Sprintf("%s → %s",
		formatter.Stamp(m.from, m.app.loc()), formatter.Stamp(m.to, m.app.loc()))) + "\n\n")

	if m.mode == modeForm && m.form != nil {
		b.WriteString(formatter.Bold(m.draft.title()) + "\n\n")
		b.WriteString(m.form.View())
		b.WriteString("\n" + formatter.Dim("esc cancel") + "\n")
		return b.String()
	}

	if len(m.sessions) == 0 {
		b.WriteString(formatter.Dim("No sessions in this range.") + "\n")
	} else {
		b.WriteString(m.table.View() + "\n")
	}

	switch {
	case m.mode == modeConfirmDelete:
		if s := m.selected(); s != nil {
			b.WriteString(formatter.StyleYellow.Render(
				fmt.Sprintf("Delete session %s? (y/n)", s.ID[:min(8, len(s.ID))])) + "\n")
		}
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(formatter.StyleGreen.Render(m.status) + "\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
