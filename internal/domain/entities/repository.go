package entities

import "strings"

// Repository is a GitHub repository (or a local clone) being audited.
type Repository struct {
	Name          string
	Owner         string
	URL           string // browsable URL, reported next to every match
	DefaultBranch string // bare branch name, without "refs/heads/"
	Private       bool
	Archived      bool
}

// FullName returns "owner/name", or just the name when the owner is unknown.
func (r Repository) FullName() string {
	if r.Owner == "" {
		return r.Name
	}
	return r.Owner + "/" + r.Name
}

// Label returns the repository name followed by its private and archived
// markers, e.g. "api (private, archived)".
func (r Repository) Label() string {
	var markers []string
	if r.Private {
		markers = append(markers, "private")
	}
	if r.Archived {
		markers = append(markers, "archived")
	}
	if len(markers) == 0 {
		return r.Name
	}
	return r.Name + " (" + strings.Join(markers, ", ") + ")"
}

// File is an entry of a repository tree listing.
type File struct {
	Path  string
	IsDir bool
}
