// Package envcfg assembles the database connection descriptor from the
// container environment.
//
// The five required variables (DB_HOST, DB_PORT, DB_NAME, DB_USER,
// DB_PASSWORD) are read exactly once at startup and validated together: a
// single Load reports every missing variable by name, so operators fix the
// whole set in one pass instead of discovering gaps one container restart at
// a time. A missing variable is a configuration error, never a retryable
// condition.
package envcfg
