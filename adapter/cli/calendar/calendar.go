package calendar

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	calendarCommands "github.com/felixgeelhaar/strand/internal/calendar/application/commands"
	routineQueries "github.com/felixgeelhaar/strand/internal/routines/application/queries"
)

// Cmd is the calendar command group
var Cmd = &cobra.Command{
	Use:   "calendar",
	Short: "See the routine on a calendar",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the dates of the current routine",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		cal, err := app.GetCalendarHandler.Handle(cmd.Context(), routineQueries.GetCalendarQuery{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("failed to load calendar: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(cal.Dates) == 0 {
			fmt.Fprintln(out, cli.Muted.Render("Nothing scheduled."))
			return nil
		}
		for _, date := range cal.Dates {
			fmt.Fprintln(out, cli.H2.Render(date))
			for _, t := range cal.Days[date] {
				line := "  " + t.Action
				if t.Time != "" {
					line = "  " + t.Time + " " + t.Action
				}
				fmt.Fprintln(out, line)
			}
		}
		for _, r := range cal.Rejected {
			fmt.Fprintln(out, cli.Warn.Render("skipped:"), r.Action, cli.Muted.Render("("+r.Reason+")"))
		}
		return nil
	},
}

var weeks int

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Push the routine to your CalDAV calendar",
	Long: `Write the routine as events to the calendar configured by CALDAV_URL.
Re-running the export updates the same events.

Examples:
  strand calendar export
  strand calendar export --weeks 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		res, err := app.ExportRoutineHandler.Handle(cmd.Context(), calendarCommands.ExportRoutineCommand{
			UserID: app.CurrentUserID,
			Weeks:  weeks,
		})
		if err != nil {
			return fmt.Errorf("failed to export calendar: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cli.Good.Render(fmt.Sprintf("Exported %d events", res.Occurrences)))
		fmt.Fprintln(out, cli.LabelValue("Created", res.Created))
		fmt.Fprintln(out, cli.LabelValue("Updated", res.Updated))
		if res.Failed > 0 {
			fmt.Fprintln(out, cli.Bad.Render(fmt.Sprintf("%d events failed", res.Failed)))
		}
		if res.Rejected > 0 {
			fmt.Fprintln(out, cli.Warn.Render(fmt.Sprintf("%d tasks skipped", res.Rejected)))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVarP(&weeks, "weeks", "w", calendarCommands.DefaultWeeks, "number of weeks to export")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(exportCmd)
}
