package report

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
)

// sortResults returns a copy of results ordered by repository, branch,
// package, source path and then installed version, newest last.
func sortResults(results []entities.MatchResult) []entities.MatchResult {
	sorted := make([]entities.MatchResult, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Repository != b.Repository {
			return a.Repository < b.Repository
		}
		if a.Branch != b.Branch {
			return a.Branch < b.Branch
		}
		if a.PackageName != b.PackageName {
			return a.PackageName < b.PackageName
		}
		if a.SourcePath != b.SourcePath {
			return a.SourcePath < b.SourcePath
		}
		return compareVersions(a.InstalledVersion, b.InstalledVersion) < 0
	})
	return sorted
}

// compareVersions puts plain versions (once range operators are dropped)
// before any other specifier. Plain versions compare by semver, everything
// else and semver ties compare lexically.
func compareVersions(a, b string) int {
	va := "v" + entities.NormalizeVersion(a)
	vb := "v" + entities.NormalizeVersion(b)
	validA, validB := semver.IsValid(va), semver.IsValid(vb)
	switch {
	case validA && !validB:
		return -1
	case !validA && validB:
		return 1
	case validA && validB:
		if c := semver.Compare(va, vb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}
