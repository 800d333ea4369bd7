package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	routineCommands "github.com/felixgeelhaar/strand/internal/routines/application/commands"
)

var toggleDate string

var toggleCmd = &cobra.Command{
	Use:   "toggle <action>",
	Short: "Mark a routine task done or undone",
	Long: `Toggle one of the day's tasks. Completing the last open task of a day
extends your streak.

Examples:
  strand toggle "Deep condition"
  strand toggle "Scalp massage" --date yesterday`,
	Aliases: []string{"done"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		date, err := ParseDay(toggleDate)
		if err != nil {
			return err
		}
		res, err := app.ToggleActionHandler.Handle(cmd.Context(), routineCommands.ToggleActionCommand{
			UserID: app.CurrentUserID,
			Date:   date,
			Action: args[0],
		})
		if err != nil {
			return fmt.Errorf("failed to toggle %q: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, Checkbox(res.Completed, res.Action))
		if res.StreakRecorded {
			fmt.Fprintln(out, Good.Render(fmt.Sprintf("Day complete! Streak: %d", res.CurrentStreak)))
		}
		return nil
	},
}

func init() {
	toggleCmd.Flags().StringVarP(&toggleDate, "date", "d", "", "day of the task (YYYY-MM-DD, today, yesterday)")
	rootCmd.AddCommand(toggleCmd)
}
