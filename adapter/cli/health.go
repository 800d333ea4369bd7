package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/strand/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check store and broker connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if app.Health == nil {
			fmt.Fprintln(out, "ok")
			return nil
		}

		overall := app.Health.GetOverallHealth(cmd.Context())
		for _, name := range app.Health.Names() {
			check := overall.Checks[name]
			status := Good.Render(string(check.Status))
			if check.Status != observability.HealthStatusHealthy {
				status = Bad.Render(string(check.Status))
			}
			fmt.Fprintf(out, "%-10s %s %s\n", name, status, Muted.Render(check.Message))
		}
		if overall.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		fmt.Fprintln(out, "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
