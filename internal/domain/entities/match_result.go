package entities

// MatchKind tells whether a target package was found at the exact version.
type MatchKind string

const (
	// MatchExact means the installed version equals the target version.
	MatchExact MatchKind = "exact"
	// MatchPartial means the package is present at a different version.
	MatchPartial MatchKind = "partial"
)

// MatchResult is a manifest entry that names one of the target packages.
type MatchResult struct {
	Repository       string
	RepositoryURL    string
	Branch           string
	PackageName      string
	SourcePath       string
	TargetVersion    string
	InstalledVersion string
	Kind             MatchKind

	// RangeAdmitsTarget is set on partial matches whose installed specifier is
	// a range that could resolve to the target version. It never changes Kind.
	RangeAdmitsTarget bool
}

// IsExact reports whether the result is an exact match.
func (m MatchResult) IsExact() bool { return m.Kind == MatchExact }
