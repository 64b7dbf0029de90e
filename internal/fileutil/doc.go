// Package fileutil provides file-tree utilities for the launch phase.
//
// ChownTree reassigns ownership of a whole directory tree (the shared log
// volume) to the restricted runtime identity, and Exists implements the
// permissive presence check that lets a deployment omit the volume entirely.
package fileutil
