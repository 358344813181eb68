//go:build unit

package npm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/infrastructure/repositories/npm"
)

func TestPackageLockParserRepository(t *testing.T) {
	t.Parallel()

	t.Run("should read package paths of lockfile version 3", func(t *testing.T) {
		t.Parallel()

		// given
		parser := npm.NewPackageLockParserRepository()
		content := []byte(`{
  "name": "frontend",
  "lockfileVersion": 3,
  "packages": {
    "": {"name": "frontend", "version": "1.0.0"},
    "node_modules/@babel/core": {"version": "7.26.0"},
    "node_modules/jest/node_modules/@babel/core": {"version": "7.24.9"},
    "node_modules/local-lib": {"resolved": "packages/lib", "link": true},
    "packages/lib": {"name": "local-lib", "version": "0.0.1"}
  }
}`)

		// when
		entries, err := parser.Parse(content, "frontend/package-lock.json")

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.ManifestEntry{
			{PackageName: "@babel/core", InstalledVersion: "7.26.0", SourcePath: "frontend/package-lock.json"},
			{PackageName: "@babel/core", InstalledVersion: "7.24.9", SourcePath: "frontend/package-lock.json"},
			{PackageName: "local-lib", InstalledVersion: "0.0.1", SourcePath: "frontend/package-lock.json"},
		}, entries)
	})

	t.Run("should walk the nested dependencies of lockfile version 1", func(t *testing.T) {
		t.Parallel()

		// given
		parser := npm.NewPackageLockParserRepository()
		content := []byte(`{
  "lockfileVersion": 1,
  "dependencies": {
    "left-pad": {"version": "1.3.0"},
    "webpack": {
      "version": "4.46.0",
      "dependencies": {"acorn": {"version": "6.4.2"}}
    }
  }
}`)

		// when
		entries, err := parser.Parse(content, "package-lock.json")

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.ManifestEntry{
			{PackageName: "left-pad", InstalledVersion: "1.3.0", SourcePath: "package-lock.json"},
			{PackageName: "webpack", InstalledVersion: "4.46.0", SourcePath: "package-lock.json"},
			{PackageName: "acorn", InstalledVersion: "6.4.2", SourcePath: "package-lock.json"},
		}, entries)
	})

	t.Run("should not repeat entries present in both sections of lockfile version 2", func(t *testing.T) {
		t.Parallel()

		// given
		parser := npm.NewPackageLockParserRepository()
		content := []byte(`{
  "lockfileVersion": 2,
  "packages": {"node_modules/left-pad": {"version": "1.3.0"}},
  "dependencies": {"left-pad": {"version": "1.3.0"}}
}`)

		// when
		entries, err := parser.Parse(content, "package-lock.json")

		// then
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "left-pad", entries[0].PackageName)
	})

	t.Run("should fail on malformed JSON", func(t *testing.T) {
		t.Parallel()

		// given
		parser := npm.NewPackageLockParserRepository()

		// when
		entries, err := parser.Parse([]byte(`{"packages": [`), "package-lock.json")

		// then
		require.Error(t, err)
		assert.Nil(t, entries)
	})
}
