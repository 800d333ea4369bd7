package profile

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/adapter/cli"
	profileCommands "github.com/felixgeelhaar/strand/internal/profiles/application/commands"
	profileQueries "github.com/felixgeelhaar/strand/internal/profiles/application/queries"
	profilesDomain "github.com/felixgeelhaar/strand/internal/profiles/domain"
)

// Cmd is the profile command group
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your hair profile",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your hair profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		p, err := app.GetProfileHandler.Handle(cmd.Context(), profileQueries.GetProfileQuery{UserID: app.CurrentUserID})
		if errors.Is(err, profilesDomain.ErrProfileNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), cli.Muted.Render("No profile yet. Run: strand profile set --hair-type ..."))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

var (
	hairType        string
	hairGoals       []string
	washFrequency   string
	routineProducts []string
	products        []string
	dateOfBirth     string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Save your hair profile",
	Long: `Save the profile plans are generated from. Fields not given keep
their stored value.

Examples:
  strand profile set --hair-type coily --goal "length retention" --wash weekly`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		details := profilesDomain.Details{}
		current, err := app.GetProfileHandler.Handle(ctx, profileQueries.GetProfileQuery{UserID: app.CurrentUserID})
		switch {
		case err == nil:
			details = profilesDomain.Details{
				DateOfBirth:     current.DateOfBirth,
				HairType:        current.HairType,
				HairGoals:       current.HairGoals,
				WashFrequency:   current.CurrentRoutine.WashFrequency,
				RoutineProducts: current.CurrentRoutine.Products,
				Products:        current.Products,
			}
		case !errors.Is(err, profilesDomain.ErrProfileNotFound):
			return fmt.Errorf("failed to load profile: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("hair-type") {
			details.HairType = hairType
		}
		if flags.Changed("goal") {
			details.HairGoals = hairGoals
		}
		if flags.Changed("wash") {
			details.WashFrequency = washFrequency
		}
		if flags.Changed("routine-product") {
			details.RoutineProducts = routineProducts
		}
		if flags.Changed("product") {
			details.Products = products
		}
		if flags.Changed("dob") {
			details.DateOfBirth = dateOfBirth
		}

		if err := app.SaveProfileHandler.Handle(ctx, profileCommands.SaveProfileCommand{UserID: app.CurrentUserID, Details: details}); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.Good.Render("Profile saved."))
		return nil
	},
}

func printProfile(w io.Writer, p *profileQueries.ProfileDTO) {
	fmt.Fprintln(w, cli.Heading("Hair profile"))
	fmt.Fprintln(w, cli.LabelValue("Hair type", p.HairType))
	fmt.Fprintln(w, cli.LabelValue("Goals", strings.Join(p.HairGoals, ", ")))
	fmt.Fprintln(w, cli.LabelValue("Wash frequency", p.CurrentRoutine.WashFrequency))
	fmt.Fprintln(w, cli.LabelValue("Routine products", strings.Join(p.CurrentRoutine.Products, ", ")))
	fmt.Fprintln(w, cli.LabelValue("Products", strings.Join(p.Products, ", ")))
	if p.DateOfBirth != "" {
		fmt.Fprintln(w, cli.LabelValue("Date of birth", p.DateOfBirth))
	}
}

func init() {
	setCmd.Flags().StringVar(&hairType, "hair-type", "", "hair type, e.g. straight, wavy, curly, coily")
	setCmd.Flags().StringArrayVar(&hairGoals, "goal", nil, "hair goal (repeatable)")
	setCmd.Flags().StringVar(&washFrequency, "wash", "", "current wash frequency")
	setCmd.Flags().StringArrayVar(&routineProducts, "routine-product", nil, "product in your current routine (repeatable)")
	setCmd.Flags().StringArrayVar(&products, "product", nil, "product you own (repeatable)")
	setCmd.Flags().StringVar(&dateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
}
