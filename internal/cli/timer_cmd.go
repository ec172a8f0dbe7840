package cli

import (
	"fmt"

	"github.com/alexanderramin/tock/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Manage timers",
	}

	cmd.AddCommand(
		newTimerListCmd(app),
		newTimerCreateCmd(app),
		newTimerRenameCmd(app),
		newTimerColorCmd(app),
		newTimerDeleteCmd(app),
	)

	return cmd
}

func newTimerListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List timers by name",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timers, err := app.Timers.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTimers(timers, app.loc()))
			return nil
		},
	}
}

func newTimerCreateCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("color") {
				color = app.defaultColor()
			}
			timer, err := app.Timers.Create(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created timer %s\n", formatter.TimerLabel(timer))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Hex color such as #8ec07c")
	return cmd
}

func newTimerRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a timer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			timer, err := app.Timers.Rename(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], formatter.TimerLabel(timer))
			return nil
		},
	}
}

func newTimerColorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "color NAME COLOR",
		Short: "Change a timer's color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			timer, err := app.Timers.SetColor(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", formatter.TimerLabel(timer), timer.Color)
			return nil
		},
	}
}

func newTimerDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a timer and all of its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !force {
				sessions, err := app.Sessions.ListByTimer(ctx, args[0])
				if err != nil {
					return err
				}
				if len(sessions) > 0 {
					return fmt.Errorf("timer %q has %d sessions; pass --force to delete them too", args[0], len(sessions))
				}
			}

			removed, err := app.Timers.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted timer %s and %d sessions\n", args[0], removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete even if the timer has sessions")
	return cmd
}
