package envcfg

import (
	"errors"
	"strings"
	"testing"
)

// mapLookup adapts a plain map to the lookup signature used by load,
// standing in for os.LookupEnv.
func mapLookup(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// fullEnv returns a complete required-variable set. Tests mutate copies.
func fullEnv() map[string]string {
	return map[string]string{
		"DB_HOST":     "db",
		"DB_PORT":     "5432",
		"DB_NAME":     "app_db",
		"DB_USER":     "app",
		"DB_PASSWORD": "s3cret",
	}
}

func TestLoad_AllPresent(t *testing.T) {
	t.Parallel()

	db, err := load(mapLookup(fullEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Database{
		Host:     "db",
		Port:     5432,
		Name:     "app_db",
		User:     "app",
		Password: "s3cret",
		SSLMode:  "disable",
	}
	if db != want {
		t.Errorf("load() = %+v, want %+v", db, want)
	}
}

func TestLoad_MissingVariable(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			env := fullEnv()
			delete(env, name)

			_, err := load(mapLookup(env))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMissingVariable) {
				t.Errorf("errors.Is(err, ErrMissingVariable) = false, err = %v", err)
			}
			if !strings.Contains(err.Error(), name) {
				t.Errorf("error %q does not name the missing variable %s", err, name)
			}
		})
	}
}

func TestLoad_EmptyValueIsMissing(t *testing.T) {
	t.Parallel()

	env := fullEnv()
	env["DB_PASSWORD"] = ""

	_, err := load(mapLookup(env))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrMissingVariable) {
		t.Errorf("errors.Is(err, ErrMissingVariable) = false, err = %v", err)
	}
	if !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Errorf("error %q does not name DB_PASSWORD", err)
	}
}

func TestLoad_AllMissingReportsEveryVariable(t *testing.T) {
	t.Parallel()

	_, err := load(mapLookup(map[string]string{}))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, name := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("joined error %q does not mention %s", err, name)
		}
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"abc", "0", "-1", "65536", "54 32"} {
		t.Run(raw, func(t *testing.T) {
			t.Parallel()

			env := fullEnv()
			env["DB_PORT"] = raw

			_, err := load(mapLookup(env))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidPort) {
				t.Errorf("errors.Is(err, ErrInvalidPort) = false, err = %v", err)
			}
			if !strings.Contains(err.Error(), "DB_PORT") {
				t.Errorf("error %q does not name DB_PORT", err)
			}
		})
	}
}

func TestLoad_SSLModeOverride(t *testing.T) {
	t.Parallel()

	env := fullEnv()
	env["DB_SSLMODE"] = "require"

	db, err := load(mapLookup(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.SSLMode != "require" {
		t.Errorf("SSLMode = %q, want %q", db.SSLMode, "require")
	}
}

func TestDatabase_URL(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		db   Database
		want string
	}{
		"plain": {
			db:   Database{Host: "db", Port: 5432, Name: "app_db", User: "app", Password: "s3cret", SSLMode: "disable"},
			want: "postgres://app:s3cret@db:5432/app_db?sslmode=disable",
		},
		"reserved characters escaped": {
			db:   Database{Host: "db", Port: 5432, Name: "app_db", User: "app", Password: "sec@ret/42", SSLMode: "disable"},
			want: "postgres://app:sec%40ret%2F42@db:5432/app_db?sslmode=disable",
		},
		"sslmode require": {
			db:   Database{Host: "10.0.0.7", Port: 6432, Name: "app_db", User: "app", Password: "pw", SSLMode: "require"},
			want: "postgres://app:pw@10.0.0.7:6432/app_db?sslmode=require",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tc.db.URL(); got != tc.want {
				t.Errorf("URL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDatabase_Addr(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		db   Database
		want string
	}{
		"hostname": {db: Database{Host: "db", Port: 5432}, want: "db:5432"},
		"ipv6":     {db: Database{Host: "::1", Port: 5432}, want: "[::1]:5432"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tc.db.Addr(); got != tc.want {
				t.Errorf("Addr() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDatabase_Redacted(t *testing.T) {
	t.Parallel()

	db := Database{Host: "db", Port: 5432, Name: "app_db", User: "app", Password: "s3cret", SSLMode: "disable"}

	got := db.Redacted()
	if strings.Contains(got, "s3cret") {
		t.Errorf("Redacted() = %q leaks the password", got)
	}
	if !strings.Contains(got, "xxxxx") {
		t.Errorf("Redacted() = %q does not contain the mask", got)
	}
}
