package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/tock/internal/cli/formatter"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/spf13/cobra"
)

func newStartCmd(app *App) *cobra.Command {
	var at timeValue

	cmd := &cobra.Command{
		Use:   "start TIMER",
		Short: "Start a timer, creating it on first use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			startAt, err := at.resolve(app)
			if err != nil {
				return err
			}

			res, err := app.Sessions.Start(ctx, args[0], startAt)
			if err != nil {
				return explainLedgerError(err, app)
			}

			out := cmd.OutOrStdout()
			if res.AutoCreated {
				fmt.Fprintf(out, "Created timer %s\n", formatter.TimerLabel(res.Timer))
			}
			fmt.Fprintf(out, "Started %s at %s\n",
				formatter.TimerLabel(res.Timer), formatter.Stamp(res.Session.Start, app.loc()))
			return nil
		},
	}

	cmd.Flags().Var(&at, "at", "Start time instead of now (must not precede the latest completed session)")
	return cmd
}

func newStopCmd(app *App) *cobra.Command {
	var at timeValue

	cmd := &cobra.Command{
		Use:   "stop TIMER",
		Short: "Stop a running timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stopAt, err := at.resolve(app)
			if err != nil {
				return err
			}

			session, err := app.Sessions.Stop(ctx, args[0], stopAt)
			if err != nil {
				return explainLedgerError(err, app)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stopped %s after %s\n",
				args[0], formatter.FormatDuration(session.Duration(app.now())))
			return nil
		},
	}

	cmd.Flags().Var(&at, "at", "Stop time instead of now (must be after the session start)")
	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show running timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			active, err := app.Sessions.Active(ctx)
			if err != nil {
				return err
			}

			entries := make([]formatter.ActiveEntry, 0, len(active))
			for _, a := range active {
				entries = append(entries, formatter.ActiveEntry{Timer: a.Timer, Session: a.Session})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.RenderStatus(entries, app.now(), app.loc()))

			latest, err := app.Reports.LatestCompletedEnd(ctx)
			if err != nil {
				return err
			}
			if latest != nil {
				fmt.Fprintln(out, formatter.Dim("Last stop: "+formatter.Stamp(*latest, app.loc())))
			}
			return nil
		},
	}
}

// explainLedgerError rewrites engine rejections into messages that name
// the conflicting instant in the user's zone.
func explainLedgerError(err error, app *App) error {
	var chrono *domain.ChronologyError
	if errors.As(err, &chrono) {
		return fmt.Errorf("%w: the latest session ended at %s; start at or after it, or use \"session add\" to backfill",
			domain.ErrChronologyViolation, formatter.Stamp(chrono.LatestEnd, app.loc()))
	}
	var stop *domain.StopTimeError
	if errors.As(err, &stop) {
		return fmt.Errorf("%w: the session started at %s",
			domain.ErrInvalidStopTime, formatter.Stamp(stop.Start, app.loc()))
	}
	return err
}
