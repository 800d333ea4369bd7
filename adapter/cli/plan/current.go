package plan

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
	plansDomain "github.com/felixgeelhaar/strand/internal/plans/domain"
)

var currentCmd = &cobra.Command{
	Use:     "current",
	Aliases: []string{"show"},
	Short:   "Show the current plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		p, err := app.GetCurrentPlanHandler.Handle(cmd.Context(), planQueries.GetCurrentPlanQuery{UserID: app.CurrentUserID})
		if errors.Is(err, plansDomain.ErrNoCurrentPlan) {
			fmt.Fprintln(cmd.OutOrStdout(), cli.Muted.Render("No plan yet. Run: strand plan generate"))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}
		printPlan(cmd.OutOrStdout(), p)
		return nil
	},
}
