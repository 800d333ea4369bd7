package academy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	academyCommands "github.com/felixgeelhaar/strand/internal/academy/application/commands"
	academyQueries "github.com/felixgeelhaar/strand/internal/academy/application/queries"
)

// Cmd is the academy command group
var Cmd = &cobra.Command{
	Use:   "academy",
	Short: "Learn the basics of hair care",
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons and quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		lessons, err := app.ListLessonsHandler.Handle(cmd.Context(), academyQueries.ListLessonsQuery{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("failed to list lessons: %w", err)
		}
		rows := make([][]string, 0, len(lessons))
		for _, l := range lessons {
			done := ""
			if l.Completed {
				done = cli.Good.Render("done")
			}
			rows = append(rows, []string{l.ID, l.Title, string(l.Type), strconv.Itoa(l.XPReward), done})
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.Table([]string{"ID", "Title", "Type", "XP", ""}, rows))
		return nil
	},
}

var answers []int

var completeCmd = &cobra.Command{
	Use:   "complete <lesson-id>",
	Short: "Complete a lesson or answer a quiz",
	Long: `Complete a lesson. Quizzes need one zero-based answer per question.

Examples:
  strand academy complete hair-types-101
  strand academy complete porosity-quiz --answer 1 --answer 0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		res, err := app.CompleteLessonHandler.Handle(cmd.Context(), academyCommands.CompleteLessonCommand{
			UserID:   app.CurrentUserID,
			LessonID: args[0],
			Answers:  answers,
		})
		if err != nil {
			return fmt.Errorf("failed to complete lesson: %w", err)
		}

		out := cmd.OutOrStdout()
		switch {
		case res.AlreadyCompleted:
			fmt.Fprintln(out, cli.Muted.Render("Already completed."))
		case !res.Passed:
			fmt.Fprintln(out, cli.Warn.Render(fmt.Sprintf("Not quite: %d of %d correct. Try again.", res.Score, res.Total)))
		default:
			fmt.Fprintln(out, cli.Good.Render(fmt.Sprintf("+%d XP", res.AwardedXP)))
		}
		for _, b := range res.NewBadges {
			fmt.Fprintln(out, cli.Title.Render("New badge: "+b))
		}
		fmt.Fprintln(out, cli.LabelValue("Total XP", res.XP))
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show XP and badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		l, err := app.GetLearnerHandler.Handle(cmd.Context(), academyQueries.GetLearnerQuery{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cli.LabelValue("XP", l.XP))
		fmt.Fprintln(out, cli.LabelValue("Lessons", len(l.CompletedLessons)))
		fmt.Fprintln(out, cli.LabelValue("Badges", strings.Join(l.Badges, ", ")))
		return nil
	},
}

func init() {
	completeCmd.Flags().IntSliceVarP(&answers, "answer", "a", nil, "quiz answer index (repeatable, in question order)")

	Cmd.AddCommand(lessonsCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(progressCmd)
}
