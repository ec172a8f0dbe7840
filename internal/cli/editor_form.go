package cli

import (
	"github.com/alexanderramin/tock/internal/cli/formatter"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// tockHuhTheme styles forms with the formatter palette.
func tockHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

type draftKind int

const (
	draftManual draftKind = iota // closed session, start and end
	draftStart                   // running session, optional start
)

// sessionDraft collects form input before it is handed to the ledger.
type sessionDraft struct {
	kind  draftKind
	timer string
	start string
	end   string
}

func (d *sessionDraft) title() string {
	if d.kind == draftStart {
		return "Start timer"
	}
	return "Add session"
}

// newDraftForm builds the input form for d. Field validation only checks
// syntax; ledger rules are enforced when the draft is applied.
func newDraftForm(app *App, d *sessionDraft) *huh.Form {
	validTime := func(optional bool) func(string) error {
		return func(s string) error {
			if s == "" && optional {
				return nil
			}
			_, err := ParseTime(s, app.now(), app.loc())
			return err
		}
	}
	validName := func(s string) error {
		_, err := domain.NormalizeName(s)
		return err
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Timer").
			Placeholder("work").
			Value(&d.timer).
			Validate(validName),
	}
	switch d.kind {
	case draftStart:
		fields = append(fields,
			huh.NewInput().
				Title("Start (optional)").
				Description("Empty means now; must not precede the latest stop").
				Value(&d.start).
				Validate(validTime(true)),
		)
	default:
		fields = append(fields,
			huh.NewInput().
				Title("Start").
				Placeholder("2025-06-02 09:00").
				Value(&d.start).
				Validate(validTime(false)),
			huh.NewInput().
				Title("End").
				Placeholder("2025-06-02 10:30").
				Value(&d.end).
				Validate(validTime(false)),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(tockHuhTheme()).
		WithShowHelp(false)
}
