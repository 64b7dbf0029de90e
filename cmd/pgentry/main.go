package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pgentry/pgentry"
	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "0.0.1"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupLogging()

	return exitCodeFor(newRootCommand().ExecuteContext(ctx))
}

// exitCodeFor maps the command result to the process exit code. A child
// exit status from supervise mode passes through unchanged so orchestrators
// see the real status; any other failure is printed and exits 1.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *pgentry.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, "pgentry:", err)
	return 1
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pgentry command [args...]",
		Short: "PostgreSQL-gated container entrypoint",
		Long: `pgentry is the container entrypoint for services that depend on PostgreSQL.
It waits for the database described by the DB_HOST, DB_PORT, DB_NAME,
DB_USER and DB_PASSWORD environment variables to accept connections, fixes
the ownership of the shared log directory, drops privileges to
appuser:appgroup, and replaces itself with the given command.

The command vector is passed through verbatim, flags included, so the
subcommand names (wait-for-db, healthcheck, version) are the only reserved
words:

  pgentry uvicorn api.main:app --host 0.0.0.0 --port 8000
  pgentry alembic upgrade head

Environment:
  LOG_DIR             log directory to re-own before the privilege drop
                      (default /app/logs; set empty to disable the fix-up)
  PGENTRY_SUPERVISE   run the command as a supervised child instead of
                      replacing the process (true/false, default false)
  LOG_LEVEL           debug, info, warning or error (default info)`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE:               runEntrypoint,
	}

	root.AddCommand(newWaitForDBCommand())
	root.AddCommand(newHealthcheckCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func runEntrypoint(cmd *cobra.Command, args []string) error {
	entry := pgentry.New(entryOptionsFromEnv()...)
	return entry.Run(cmd.Context(), args)
}

// entryOptionsFromEnv translates the optional environment knobs into
// Entrypoint options. Unset variables keep the package defaults.
func entryOptionsFromEnv() []pgentry.Option {
	var opts []pgentry.Option
	if dir, ok := os.LookupEnv("LOG_DIR"); ok {
		opts = append(opts, pgentry.WithLogDir(dir))
	}
	if raw, ok := os.LookupEnv("PGENTRY_SUPERVISE"); ok {
		if v, err := strconv.ParseBool(raw); err == nil && v {
			opts = append(opts, pgentry.WithSupervise(true))
		}
	}
	return opts
}

// setupLogging installs the process-wide text logger at the level named by
// LOG_LEVEL. pgentry derives its package logger from slog.Default, so this
// covers both the entrypoint's own output and the library's.
func setupLogging() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	})))
}

func logLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
