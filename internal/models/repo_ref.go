package models

import (
	"fmt"
	"strings"
)

// RepoRef identifies a repository on the source host
type RepoRef struct {
	// Owner is the user or organization login
	Owner string
	// Name is the repository name
	Name string
}

// ParseRepoRef parses "owner/name" (the GITHUB_REPOSITORY format)
func ParseRepoRef(s string) (RepoRef, error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoRef{}, fmt.Errorf("invalid repository %q, expected owner/name", s)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// FullName returns "owner/name"
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}
