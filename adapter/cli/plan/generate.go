package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
	planPorts "github.com/felixgeelhaar/strand/internal/plans/application/ports"
)

var (
	hairType        string
	hairGoals       []string
	washFrequency   string
	routineProducts []string
	products        []string
	dateOfBirth     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new four-week plan",
	Long: `Generate a plan from your hair profile. Profile flags update the
stored profile first; without them the stored profile is used.

Examples:
  strand plan generate
  strand plan generate --hair-type curly --goal moisture --goal "less frizz" --wash "twice a week"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		gen := planCommands.GeneratePlanCommand{UserID: app.CurrentUserID}
		if profileFlagsSet(cmd) {
			gen.Profile = &planPorts.Profile{
				HairType:  hairType,
				HairGoals: hairGoals,
				CurrentRoutine: planPorts.CurrentRoutine{
					WashFrequency: washFrequency,
					Products:      routineProducts,
				},
				Products:    products,
				DateOfBirth: dateOfBirth,
			}
		}

		fmt.Fprintln(cmd.ErrOrStderr(), cli.Muted.Render("Generating plan..."))
		result, err := app.GeneratePlanHandler.Handle(cmd.Context(), gen)
		if err != nil {
			return fmt.Errorf("failed to generate plan: %w", err)
		}
		printPlan(cmd.OutOrStdout(), result.Plan)
		return nil
	},
}

func profileFlagsSet(cmd *cobra.Command) bool {
	for _, name := range []string{"hair-type", "goal", "wash", "routine-product", "product", "dob"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func init() {
	generateCmd.Flags().StringVar(&hairType, "hair-type", "", "hair type, e.g. straight, wavy, curly, coily")
	generateCmd.Flags().StringArrayVar(&hairGoals, "goal", nil, "hair goal (repeatable)")
	generateCmd.Flags().StringVar(&washFrequency, "wash", "", "current wash frequency")
	generateCmd.Flags().StringArrayVar(&routineProducts, "routine-product", nil, "product in your current routine (repeatable)")
	generateCmd.Flags().StringArrayVar(&products, "product", nil, "product you own (repeatable)")
	generateCmd.Flags().StringVar(&dateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
}
