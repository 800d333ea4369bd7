package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	routineQueries "github.com/felixgeelhaar/strand/internal/routines/application/queries"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the routine tasks due today",
	Long: `Show the tasks your current plan schedules for a day and which of
them you already completed.

Examples:
  strand today
  strand today --date 2024-01-08`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		date, err := ParseDay(todayDate)
		if err != nil {
			return err
		}
		today, err := app.GetTodayHandler.Handle(cmd.Context(), routineQueries.GetTodayQuery{
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return fmt.Errorf("failed to load routine: %w", err)
		}
		printToday(cmd.OutOrStdout(), today)
		return nil
	},
}

func printToday(w io.Writer, today *routineQueries.TodayDTO) {
	fmt.Fprintln(w, Heading("Routine for "+today.Date))
	if !today.HasPlan {
		fmt.Fprintln(w, Muted.Render("No plan yet. Run: strand plan generate"))
		return
	}
	if len(today.Tasks) == 0 {
		fmt.Fprintln(w, Muted.Render("Rest day, nothing scheduled."))
		return
	}
	for _, t := range today.Tasks {
		line := t.Action
		if t.Time != "" {
			line = t.Time + "  " + line
		}
		fmt.Fprintln(w, Checkbox(t.Completed, line))
		if Verbose() && t.Details != "" {
			fmt.Fprintln(w, Muted.Render("      "+t.Details))
		}
	}
	for _, r := range today.Rejected {
		fmt.Fprintln(w, Warn.Render("skipped:"), r.Action, Muted.Render("("+r.Reason+")"))
	}
	switch {
	case today.AutoCompleted:
		fmt.Fprintln(w, Good.Render("Day settled automatically."))
	case today.AllDone:
		fmt.Fprintln(w, Good.Render("All done for today!"))
	}
}

func init() {
	todayCmd.Flags().StringVarP(&todayDate, "date", "d", "", "day to show (YYYY-MM-DD, today, yesterday)")
	rootCmd.AddCommand(todayCmd)
}
