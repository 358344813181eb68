//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ManifestEntryBuilder helps create manifest entries with a fluent interface.
type ManifestEntryBuilder struct {
	*testkit.BaseBuilder
	packageName      string
	installedVersion string
	sourcePath       string
}

// NewManifestEntryBuilder creates a new manifest entry builder with sensible defaults.
func NewManifestEntryBuilder() *ManifestEntryBuilder {
	return &ManifestEntryBuilder{
		BaseBuilder:      testkit.NewBaseBuilder(),
		packageName:      "@babel/core",
		installedVersion: "7.26.0",
		sourcePath:       "package.json",
	}
}

// WithPackageName sets the package name.
func (b *ManifestEntryBuilder) WithPackageName(name string) *ManifestEntryBuilder {
	b.packageName = name
	return b
}

// WithInstalledVersion sets the installed version or range.
func (b *ManifestEntryBuilder) WithInstalledVersion(version string) *ManifestEntryBuilder {
	b.installedVersion = version
	return b
}

// WithSourcePath sets the manifest path.
func (b *ManifestEntryBuilder) WithSourcePath(path string) *ManifestEntryBuilder {
	b.sourcePath = path
	return b
}

// Build creates the entry (satisfies testkit.Builder interface).
func (b *ManifestEntryBuilder) Build() interface{} {
	return b.BuildEntry()
}

// BuildEntry creates the entry with a concrete return type.
func (b *ManifestEntryBuilder) BuildEntry() entities.ManifestEntry {
	return entities.ManifestEntry{
		PackageName:      b.packageName,
		InstalledVersion: b.installedVersion,
		SourcePath:       b.sourcePath,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ManifestEntryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.packageName = "@babel/core"
	b.installedVersion = "7.26.0"
	b.sourcePath = "package.json"
	return b
}

// Clone creates a deep copy of the ManifestEntryBuilder.
func (b *ManifestEntryBuilder) Clone() testkit.Builder {
	return &ManifestEntryBuilder{
		BaseBuilder:      b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		packageName:      b.packageName,
		installedVersion: b.installedVersion,
		sourcePath:       b.sourcePath,
	}
}
