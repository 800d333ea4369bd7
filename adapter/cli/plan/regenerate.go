package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Adjust the current plan to your latest feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), cli.Muted.Render("Regenerating plan..."))
		result, err := app.RegeneratePlanHandler.Handle(cmd.Context(), planCommands.RegeneratePlanCommand{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("failed to regenerate plan: %w", err)
		}
		printPlan(cmd.OutOrStdout(), result.Plan)
		return nil
	},
}
