// Package sentinel provides an immutable error type for sentinel error declarations.
//
// The entrypoint's error taxonomy (missing configuration, retry-budget
// exhaustion, launch failures) is expressed as sentinel errors matched with
// errors.Is through wrapped chains. Sentinels declared with errors.New are
// mutable variables that consumers can reassign; Error is a string-based error
// type that can be declared as a const, making the taxonomy truly immutable.
package sentinel
