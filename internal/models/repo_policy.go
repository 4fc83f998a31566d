package models

// RepoPolicy is the per-repository escape hatch configuration.
// The zero value is the restrictive default.
type RepoPolicy struct {
	AllowBypassWithoutCompletedTask bool
}
