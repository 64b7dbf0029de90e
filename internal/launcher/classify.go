package launcher

import "strings"

// CommandKind labels what the command vector appears to be. It is derived
// metadata for log output only; nothing in the launch path branches on it.
type CommandKind string

const (
	// CommandHTTPServer marks an HTTP API server process (uvicorn-style).
	CommandHTTPServer CommandKind = "http-server"

	// CommandMigration marks a database-migration runner (alembic-style).
	CommandMigration CommandKind = "migration"

	// CommandGeneric marks anything unrecognized. Such commands run exactly
	// the same way; only the announcement line is generic.
	CommandGeneric CommandKind = "generic"
)

// Marker substrings, matched against every token of the command vector.
// Server markers take precedence: a server invocation may well mention a
// migrations path among its arguments.
var (
	httpServerMarkers = []string{"uvicorn", "http-server"}
	migrationMarkers  = []string{"alembic", "migrate"}
)

// Classify inspects the command vector and returns its kind. Pure function
// of argv: no side effects, and the vector is never mutated.
func Classify(argv []string) CommandKind {
	if containsMarker(argv, httpServerMarkers) {
		return CommandHTTPServer
	}
	if containsMarker(argv, migrationMarkers) {
		return CommandMigration
	}
	return CommandGeneric
}

func containsMarker(argv []string, markers []string) bool {
	for _, token := range argv {
		for _, m := range markers {
			if strings.Contains(token, m) {
				return true
			}
		}
	}
	return false
}

// String implements fmt.Stringer.
func (k CommandKind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the declared kinds.
func (k CommandKind) IsValid() bool {
	switch k {
	case CommandHTTPServer, CommandMigration, CommandGeneric:
		return true
	}
	return false
}

// Announcement returns the log line announcing what is about to run.
func (k CommandKind) Announcement() string {
	switch k {
	case CommandHTTPServer:
		return "(Entrypoint) Starting HTTP API server"
	case CommandMigration:
		return "(Entrypoint) Running database migrations"
	default:
		return "(Entrypoint) Running passed command"
	}
}
