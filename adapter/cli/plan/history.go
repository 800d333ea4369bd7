package plan

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived plans, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		plans, err := app.ListPlanHistoryHandler.Handle(cmd.Context(), planQueries.ListPlanHistoryQuery{
			UserID: app.CurrentUserID,
			Limit:  historyLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list plans: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(plans) == 0 {
			fmt.Fprintln(out, cli.Muted.Render("No archived plans."))
			return nil
		}
		rows := make([][]string, 0, len(plans))
		for _, p := range plans {
			archived := ""
			if p.ArchivedAt != nil {
				archived = p.ArchivedAt.Local().Format("2006-01-02")
			}
			feedback := ""
			if p.RegeneratedFromFeedback {
				feedback = "yes"
			}
			rows = append(rows, []string{
				p.ID.String()[:8],
				p.CreatedAt.Local().Format("2006-01-02"),
				archived,
				strconv.Itoa(len(p.Routine)),
				feedback,
			})
		}
		fmt.Fprintln(out, cli.Table([]string{"ID", "Created", "Archived", "Tasks", "Feedback"}, rows))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of plans to show")
}
