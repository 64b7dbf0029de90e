package main

import (
	"fmt"

	"github.com/pgentry/pgentry"
	"github.com/spf13/cobra"
)

func newWaitForDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait-for-db",
		Short: "Wait for the database to become ready, then exit",
		Long: `Run only the readiness gate: probe the database described by the DB_*
environment variables until it accepts a connection or the attempt ceiling
is reached. Exits 0 once the database is ready and 1 otherwise. Meant for
init containers and scripts that need to block on the database without
launching anything.`,
		Args: cobra.NoArgs,
		RunE: runWaitForDB,
	}

	cmd.Flags().Int("attempts", pgentry.DefaultMaxAttempts, "attempt ceiling before giving up")
	cmd.Flags().Duration("connect-timeout", pgentry.DefaultConnectTimeout, "budget for a single connection attempt")
	cmd.Flags().Duration("retry-delay", pgentry.DefaultRetryDelay, "pause between failed attempts")

	return cmd
}

func runWaitForDB(cmd *cobra.Command, args []string) error {
	attempts, _ := cmd.Flags().GetInt("attempts")
	connectTimeout, _ := cmd.Flags().GetDuration("connect-timeout")
	retryDelay, _ := cmd.Flags().GetDuration("retry-delay")

	if attempts <= 0 {
		return fmt.Errorf("--attempts must be greater than 0, got %d", attempts)
	}
	if connectTimeout <= 0 {
		return fmt.Errorf("--connect-timeout must be greater than 0, got %v", connectTimeout)
	}
	if retryDelay <= 0 {
		return fmt.Errorf("--retry-delay must be greater than 0, got %v", retryDelay)
	}

	entry := pgentry.New(
		pgentry.WithMaxAttempts(attempts),
		pgentry.WithConnectTimeout(connectTimeout),
		pgentry.WithRetryDelay(retryDelay),
	)
	return entry.WaitForDatabase(cmd.Context())
}
