package plan

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
)

// Cmd is the plan command group
var Cmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and review your care plan",
	Long:  `Generate a four-week plan from your hair profile, regenerate it from feedback and browse past plans.`,
}

func init() {
	Cmd.AddCommand(generateCmd)
	Cmd.AddCommand(regenerateCmd)
	Cmd.AddCommand(currentCmd)
	Cmd.AddCommand(historyCmd)
	Cmd.AddCommand(feedbackCmd)
}

func printPlan(w io.Writer, p *planQueries.PlanDTO) {
	title := "Plan from " + p.CreatedAt.Local().Format("2006-01-02")
	if p.RegeneratedFromFeedback {
		title += " (adjusted from feedback)"
	}
	fmt.Fprintln(w, cli.Heading(title))
	fmt.Fprintln(w, cli.Muted.Render(fmt.Sprintf("%d days, source %s", p.CycleLength, p.Source)))

	rows := make([][]string, 0, len(p.Routine))
	for _, t := range p.Routine {
		week := ""
		if t.Week > 0 {
			week = strconv.Itoa(t.Week)
		}
		rows = append(rows, []string{t.Day, t.Time, week, t.Action})
	}
	fmt.Fprintln(w, cli.Table([]string{"Day", "Time", "Week", "Action"}, rows))

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.H2.Render("Tips"))
	fmt.Fprintln(w, cli.Bullets(p.Tips))
	fmt.Fprintln(w, cli.H2.Render("Recommended products"))
	fmt.Fprintln(w, cli.Bullets(p.RecommendedProducts))
}
