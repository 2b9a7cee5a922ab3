package resolver

import "errors"

var (
	// ErrNameUnresolved means neither a descriptor nor the origin remote named the project.
	ErrNameUnresolved = errors.New("cannot determine the project name (no colcon.pkg name and no origin remote)")

	// ErrRootManifest wraps a descriptor or repository manifest of the root
	// project that could not be parsed. No dependency closure exists without it.
	ErrRootManifest = errors.New("root project manifest unreadable")
)

// Diagnostic kinds, attached to log entries under the "diag" key.
const (
	DiagNameConflict   = "name_conflict"
	DiagSuffixMismatch = "suffix_mismatch"
	DiagLocatorMiss    = "locator_miss"
	DiagNameUnresolved = "name_unresolved"
	DiagManifestParse  = "manifest_parse"
	DiagVCSFailure     = "vcs_failure"
)
