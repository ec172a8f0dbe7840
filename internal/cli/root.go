package cli

import (
	"time"

	"github.com/alexanderramin/tock/internal/clock"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/alexanderramin/tock/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Timers   service.TimerService
	Sessions service.SessionService
	Reports  service.ReportService

	Clock        clock.Clock
	Location     *time.Location
	DefaultColor string

	// IsInteractive reports whether stdin is a terminal. The session editor
	// refuses to start without one.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock.Now()
}

func (a *App) loc() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) defaultColor() string {
	if a.DefaultColor == "" {
		return domain.DefaultColor
	}
	return a.DefaultColor
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "tock" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tock",
		Short:         "Start and stop named timers and report where the time went",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newStartCmd(app),
		newStopCmd(app),
		newStatusCmd(app),
		newTimerCmd(app),
		newSessionCmd(app),
		newReportCmd(app),
	)

	return root
}
