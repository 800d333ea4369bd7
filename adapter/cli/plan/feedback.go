package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
)

var feedbackNotes string

var feedbackCmd = &cobra.Command{
	Use:   "feedback <Better|Same|Worse>",
	Short: "Submit your weekly check-in",
	Long: `Tell strand how your hair felt this week. The plan is regenerated
from the check-in in the background.

Examples:
  strand plan feedback better
  strand plan feedback worse --notes "ends feel dry"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		res, err := app.SubmitFeedbackHandler.Handle(cmd.Context(), planCommands.SubmitFeedbackCommand{
			UserID:   app.CurrentUserID,
			HairFeel: args[0],
			Notes:    feedbackNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to submit feedback: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cli.Good.Render("Thanks! Feedback recorded."))
		fmt.Fprintln(out, cli.Muted.Render("ID: "+res.FeedbackID.String()))
		fmt.Fprintln(out, cli.Muted.Render("Your plan will be adjusted to it; see: strand plan current"))
		return nil
	},
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackNotes, "notes", "", "free-form notes")
}
