package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tock/internal/aggregate"
	"github.com/alexanderramin/tock/internal/cli/formatter"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/spf13/cobra"
)

// rangeFlags are the --from/--to pair shared by listing commands.
type rangeFlags struct {
	from, to timeValue
}

func (r *rangeFlags) register(cmd *cobra.Command, fromHelp string) {
	cmd.Flags().Var(&r.from, "from", fromHelp)
	cmd.Flags().Var(&r.to, "to", "End of the range (default now)")
}

// resolve returns [from, to]; an unset from falls back to local midnight
// days back from today.
func (r *rangeFlags) resolve(app *App, days int) (time.Time, time.Time, error) {
	now := app.now()
	from, err := r.from.resolveOr(app, aggregate.StartOfDay(now, app.loc()).AddDate(0, 0, -days))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := r.to.resolveOr(app, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from: %w", domain.ErrInvalidRange)
	}
	return from, to, nil
}

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record, list and remove sessions",
	}

	cmd.AddCommand(
		newSessionAddCmd(app),
		newSessionListCmd(app),
		newSessionRemoveCmd(app),
		newSessionEditCmd(app),
	)

	return cmd
}

func newSessionAddCmd(app *App) *cobra.Command {
	var start, end timeValue

	cmd := &cobra.Command{
		Use:   "add TIMER --start TIME --end TIME",
		Short: "Record a finished session after the fact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := start.resolve(app)
			if err != nil {
				return err
			}
			to, err := end.resolve(app)
			if err != nil {
				return err
			}

			res, err := app.Sessions.CreateManual(cmd.Context(), args[0], *from, *to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.AutoCreated {
				fmt.Fprintf(out, "Created timer %s\n", formatter.TimerLabel(res.Timer))
			}
			fmt.Fprintf(out, "Recorded %s for %s (%s)\n",
				formatter.FormatDuration(res.Session.Duration(app.now())),
				formatter.TimerLabel(res.Timer),
				formatter.ShortID(res.Session.ID))
			return nil
		},
	}

	cmd.Flags().Var(&start, "start", "Session start")
	cmd.Flags().Var(&end, "end", "Session end")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var rng rangeFlags
	var timerName string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions in a range, running ones included",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			from, to, err := rng.resolve(app, 6)
			if err != nil {
				return err
			}

			g, err := app.Reports.SessionsInRange(ctx, from, to, true)
			if err != nil {
				return err
			}

			sessions := g.All()
			if timerName != "" {
				timer, err := app.Timers.GetByName(ctx, timerName)
				if err != nil {
					return err
				}
				sessions = g.Sessions[timer.ID]
				aggregate.SortByStart(sessions)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderSessions(sessions, g.Timers, app.now(), app.loc()))
			return nil
		},
	}

	rng.register(cmd, "Start of the range (default 6 days before today)")
	cmd.Flags().StringVar(&timerName, "timer", "", "Only sessions of this timer")
	return cmd
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a session by id or unique id prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Sessions.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", formatter.ShortID(id))
			return nil
		},
	}
}

func newSessionEditCmd(app *App) *cobra.Command {
	var rng rangeFlags

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Browse, add and delete sessions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("session edit needs an interactive terminal; use session add/remove instead")
			}
			from, to, err := rng.resolve(app, 6)
			if err != nil {
				return err
			}
			if !rng.to.set {
				return runEditor(cmd.Context(), app, from, nil)
			}
			return runEditor(cmd.Context(), app, from, &to)
		},
	}

	rng.register(cmd, "Start of the range (default 6 days before today)")
	return cmd
}
