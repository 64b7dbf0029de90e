package launcher

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		argv []string
		want CommandKind
	}{
		"uvicorn server": {
			argv: []string{"uvicorn", "src.api.main:app", "--host", "0.0.0.0", "--port", "8000"},
			want: CommandHTTPServer,
		},
		"http-server wrapper script": {
			argv: []string{"run-http-server", "--port", "8000"},
			want: CommandHTTPServer,
		},
		"marker in later token": {
			argv: []string{"python", "-m", "uvicorn", "src.api.main:app"},
			want: CommandHTTPServer,
		},
		"alembic upgrade": {
			argv: []string{"alembic", "upgrade", "head"},
			want: CommandMigration,
		},
		"migrate wrapper script": {
			argv: []string{"./scripts/migrate.sh"},
			want: CommandMigration,
		},
		"server wins over migration mention": {
			argv: []string{"uvicorn", "app:app", "--migrations-dir", "migrations"},
			want: CommandHTTPServer,
		},
		"unknown command": {
			argv: []string{"bash", "-c", "env"},
			want: CommandGeneric,
		},
		"empty vector": {
			argv: nil,
			want: CommandGeneric,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tc.argv); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.argv, got, tc.want)
			}
		})
	}
}

func TestClassify_DoesNotMutateVector(t *testing.T) {
	t.Parallel()

	argv := []string{"alembic", "upgrade", "head"}
	Classify(argv)

	want := []string{"alembic", "upgrade", "head"}
	for i := range want {
		if argv[i] != want[i] {
			t.Fatalf("argv[%d] = %q after Classify, want %q", i, argv[i], want[i])
		}
	}
}

func TestCommandKind_IsValid(t *testing.T) {
	t.Parallel()

	for _, k := range []CommandKind{CommandHTTPServer, CommandMigration, CommandGeneric} {
		if !k.IsValid() {
			t.Errorf("IsValid() = false for declared kind %q", k)
		}
	}
	if CommandKind("cron-job").IsValid() {
		t.Error("IsValid() = true for an undeclared kind")
	}
}

func TestCommandKind_Announcement(t *testing.T) {
	t.Parallel()

	seen := map[string]CommandKind{}
	for _, k := range []CommandKind{CommandHTTPServer, CommandMigration, CommandGeneric} {
		msg := k.Announcement()
		if !strings.HasPrefix(msg, "(Entrypoint) ") {
			t.Errorf("announcement %q for %v lacks the (Entrypoint) prefix", msg, k)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("kinds %v and %v share the announcement %q", prev, k, msg)
		}
		seen[msg] = k
	}

	// Undeclared kinds fall through to the generic line rather than erroring.
	if got := CommandKind("cron-job").Announcement(); got != CommandGeneric.Announcement() {
		t.Errorf("undeclared kind announcement = %q, want the generic line", got)
	}
}
