package main

import (
	"fmt"

	"github.com/pgentry/pgentry"
	"github.com/spf13/cobra"
)

func newHealthcheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe the database once and exit",
		Long: `Perform a single bounded connection probe against the database described
by the DB_* environment variables. Exits 0 if the database answered and 1
otherwise. There is no retry; wire this into a Docker HEALTHCHECK or a
liveness probe and let the orchestrator own the retry policy.`,
		Args: cobra.NoArgs,
		RunE: runHealthcheck,
	}

	cmd.Flags().Duration("timeout", pgentry.DefaultConnectTimeout, "probe budget")

	return cmd
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		return fmt.Errorf("--timeout must be greater than 0, got %v", timeout)
	}

	entry := pgentry.New(pgentry.WithConnectTimeout(timeout))
	return entry.CheckDatabase(cmd.Context())
}
