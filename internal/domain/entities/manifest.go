package entities

import "path"

// FileFormat identifies one of the supported npm manifest formats.
type FileFormat string

const (
	// FormatPackageDescriptor is package.json: ranges per dependency section.
	FormatPackageDescriptor FileFormat = "package.json"
	// FormatLockJSON is package-lock.json (lockfileVersion 1, 2 and 3).
	FormatLockJSON FileFormat = "package-lock.json"
	// FormatLockText is the line-oriented yarn.lock.
	FormatLockText FileFormat = "yarn.lock"
)

// ManifestFileNames lists the file names the walker looks for, in check order.
func ManifestFileNames() []string {
	return []string{
		string(FormatPackageDescriptor),
		string(FormatLockJSON),
		string(FormatLockText),
	}
}

// FormatForPath resolves the format from the base name of a repository path.
func FormatForPath(filePath string) (FileFormat, bool) {
	switch base := path.Base(filePath); base {
	case string(FormatPackageDescriptor), string(FormatLockJSON), string(FormatLockText):
		return FileFormat(base), true
	default:
		return "", false
	}
}

// ManifestEntry is one (package, version) pair extracted from a manifest.
type ManifestEntry struct {
	PackageName      string
	InstalledVersion string // raw value; ranges are kept as written
	SourcePath       string // e.g. "frontend/package-lock.json"
}

// ManifestFile is a manifest fetched from one branch of a repository.
type ManifestFile struct {
	Repository Repository
	Branch     string
	Path       string
	Format     FileFormat
	Content    []byte
}
