package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	streakQueries "github.com/felixgeelhaar/strand/internal/streaks/application/queries"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show your current and longest streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		streak, err := app.GetStreakHandler.Handle(cmd.Context(), streakQueries.GetStreakQuery{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("failed to load streak: %w", err)
		}

		last := streak.LastCompletedDate
		if last == "" {
			last = "never"
		}
		body := LabelValue("Current", streak.CurrentStreak) + "\n" +
			LabelValue("Longest", streak.LongestStreak) + "\n" +
			LabelValue("Last completed", last)
		fmt.Fprintln(cmd.OutOrStdout(), Panel.Render(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streakCmd)
}
