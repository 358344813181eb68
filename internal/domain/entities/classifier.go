package entities

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// rangeOperators are stripped from the front of an installed version before the
// equality test. Two-character operators come first so ">=" is not read as ">".
var rangeOperators = []string{">=", "<=", "^", "~", ">", "<", "="} //nolint:gochecknoglobals // read-only table

// NormalizeVersion strips leading range operators, whitespace and a single "v"
// from a version specifier. It is only used to compare versions; reports keep
// the raw value.
func NormalizeVersion(version string) string {
	normalized := strings.TrimSpace(version)
	for {
		stripped := false
		for _, op := range rangeOperators {
			if strings.HasPrefix(normalized, op) {
				normalized = strings.TrimSpace(strings.TrimPrefix(normalized, op))
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.TrimPrefix(normalized, "v")
}

// Classify compares a manifest entry against the target list. Entries whose
// name matches no target produce no result; every same-name target yields one
// result, exact ones first.
func Classify(repo Repository, branch string, entry ManifestEntry, targets []TargetPackage) []MatchResult {
	normalized := NormalizeVersion(entry.InstalledVersion)

	var exact, partial []MatchResult
	for _, target := range targets {
		if target.Name != entry.PackageName {
			continue
		}

		result := MatchResult{
			Repository:       repo.Name,
			RepositoryURL:    repo.URL,
			Branch:           branch,
			PackageName:      entry.PackageName,
			SourcePath:       entry.SourcePath,
			TargetVersion:    target.Version,
			InstalledVersion: entry.InstalledVersion,
		}

		if normalized == target.Version {
			result.Kind = MatchExact
			exact = append(exact, result)
			continue
		}

		result.Kind = MatchPartial
		result.RangeAdmitsTarget = rangeAdmits(entry.InstalledVersion, target.Version)
		partial = append(partial, result)
	}

	return append(exact, partial...)
}

// rangeAdmits reports whether specifier is a semver range satisfied by version.
// Anything that does not parse (git URLs, tags, "workspace:*") admits nothing.
func rangeAdmits(specifier, version string) bool {
	constraint, err := semver.NewConstraint(specifier)
	if err != nil {
		return false
	}
	target, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return constraint.Check(target)
}
