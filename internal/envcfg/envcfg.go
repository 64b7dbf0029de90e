package envcfg

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/pgentry/pgentry/internal/sentinel"
)

// ErrMissingVariable is returned (wrapped, naming the variable) when a
// required environment variable is unset or empty.
const ErrMissingVariable = sentinel.Error("required environment variable is not set")

// ErrInvalidPort is returned when DB_PORT is set but does not parse as a
// port number.
const ErrInvalidPort = sentinel.Error("database port must be an integer between 1 and 65535")

// Environment variable names consumed by Load.
const (
	envHost     = "DB_HOST"
	envPort     = "DB_PORT"
	envName     = "DB_NAME"
	envUser     = "DB_USER"
	envPassword = "DB_PASSWORD"
	envSSLMode  = "DB_SSLMODE"
)

// defaultSSLMode is used when DB_SSLMODE is unset. Containers talk to the
// database over the compose/pod-internal network, where TLS is not
// provisioned.
const defaultSSLMode = "disable"

// Database is the immutable connection descriptor for the PostgreSQL
// endpoint the readiness gate probes. It is constructed once from the
// environment and passed by value; nothing reads ambient state after Load.
type Database struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// lookupFunc mirrors os.LookupEnv so tests can supply a fixed environment
// without mutating process state.
type lookupFunc func(key string) (string, bool)

// Load builds a Database from the process environment. It returns a joined
// error listing every missing required variable by name; an error here is a
// fatal configuration problem, not a condition to retry.
func Load() (Database, error) {
	return load(os.LookupEnv)
}

func load(lookup lookupFunc) (Database, error) {
	var errs []error

	need := func(key string) string {
		v, ok := lookup(key)
		if !ok || v == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingVariable, key))
		}
		return v
	}

	db := Database{
		Host:     need(envHost),
		Name:     need(envName),
		User:     need(envUser),
		Password: need(envPassword),
		SSLMode:  defaultSSLMode,
	}

	if raw := need(envPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidPort, envPort, raw))
		} else {
			db.Port = port
		}
	}

	if mode, ok := lookup(envSSLMode); ok && mode != "" {
		db.SSLMode = mode
	}

	if len(errs) > 0 {
		return Database{}, errors.Join(errs...)
	}
	return db, nil
}

// Addr returns the host:port dial address for the descriptor. IPv6 hosts
// are bracketed per net.JoinHostPort.
func (d Database) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// URL renders the descriptor as a postgres:// connection URL. User and
// password are percent-escaped so credentials containing reserved
// characters cannot corrupt the URL structure.
func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Addr(),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Redacted returns the URL with the password replaced, for log output.
func (d Database) Redacted() string {
	masked := d
	masked.Password = "xxxxx"
	return masked.URL()
}
