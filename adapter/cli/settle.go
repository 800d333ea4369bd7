package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	routineCommands "github.com/felixgeelhaar/strand/internal/routines/application/commands"
)

var settleDate string

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Auto-complete a day that has no tasks",
	Long: `Settle a rest day. A day without scheduled tasks counts toward the
streak once it is settled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		date, err := ParseDay(settleDate)
		if err != nil {
			return err
		}
		res, err := app.SettleDayHandler.Handle(cmd.Context(), routineCommands.SettleDayCommand{
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return fmt.Errorf("failed to settle %s: %w", date, err)
		}
		out := cmd.OutOrStdout()
		if !res.Settled {
			fmt.Fprintln(out, Muted.Render("Nothing to settle for "+date.String()+"."))
			return nil
		}
		fmt.Fprintln(out, Good.Render(fmt.Sprintf("Settled %s. Streak: %d", date, res.CurrentStreak)))
		return nil
	},
}

func init() {
	settleCmd.Flags().StringVarP(&settleDate, "date", "d", "", "day to settle (YYYY-MM-DD, today, yesterday)")
	rootCmd.AddCommand(settleCmd)
}
