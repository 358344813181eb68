//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pkgscan/internal/domain/commands"
	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories"
	"github.com/rios0rios0/pkgscan/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/pkgscan/test/infrastructure/repositorydoubles"
)

var babelTarget = entities.TargetPackage{Name: "@babel/core", Version: "7.26.0"}

func TestScanCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should write an exact match found in a lockfile", func(t *testing.T) {
		t.Parallel()

		// given
		repo := entitybuilders.NewRepositoryBuilder().WithName("frontend-app-learning").BuildRepository()
		spy := &doubles.SpyProviderRepository{
			Repositories: []entities.Repository{repo},
			Contents: map[string]string{
				doubles.FileKey("frontend-app-learning", "master", "package-lock.json"): lockWithBabel,
			},
		}
		cmd := commands.NewScanCommand(newProviderRegistry(spy), newParserRegistry(), infraRepos.NewReportFactory())
		settings := newSettings(babelTarget)
		settings.OutputDir = filepath.Join(t.TempDir(), "results")
		var console bytes.Buffer

		// when
		report, err := cmd.Execute(context.Background(), settings, commands.ScanOptions{Console: &console})

		// then
		require.NoError(t, err)
		require.Len(t, report.Exact(), 1)
		assert.Empty(t, report.Partial())
		assert.Equal(t, 1, report.Repositories)
		_, uuidErr := uuid.Parse(report.RunID)
		require.NoError(t, uuidErr)

		match := report.Exact()[0]
		assert.Equal(t, "frontend-app-learning", match.Repository)
		assert.Equal(t, "master", match.Branch)
		assert.Equal(t, "package-lock.json", match.SourcePath)
		assert.Equal(t, "7.26.0", match.InstalledVersion)

		exact, readErr := os.ReadFile(filepath.Join(settings.OutputDir, "exact_matches.txt"))
		require.NoError(t, readErr)
		assert.Contains(t, string(exact), "Repository: frontend-app-learning\n")
		assert.Contains(t, string(exact), "Run ID: "+report.RunID+"\n")
		partial, readErr := os.ReadFile(filepath.Join(settings.OutputDir, "partial_matches.txt"))
		require.NoError(t, readErr)
		assert.Contains(t, string(partial), "No matches found.")
		assert.Contains(t, console.String(), "✓ @babel/core (package-lock.json)")
	})

	t.Run("should report a partial match found in a nested lockfile in recursive mode", func(t *testing.T) {
		t.Parallel()

		// given
		repo := entitybuilders.NewRepositoryBuilder().WithName("monorepo").BuildRepository()
		spy := &doubles.SpyProviderRepository{
			Repositories: []entities.Repository{repo},
			Trees: map[string][]entities.File{
				doubles.BranchKey("monorepo", "master"): {{Path: "frontend/package-lock.json"}},
			},
			Contents: map[string]string{
				doubles.FileKey("monorepo", "master", "frontend/package-lock.json"): `{
  "lockfileVersion": 2,
  "packages": {"node_modules/@babel/core": {"version": "7.24.9"}}
}`,
			},
		}
		reports := &doubles.SpyReportRepository{}
		cmd := commands.NewScanCommand(newProviderRegistry(spy), newParserRegistry(), spyReportFactory(reports, nil))
		settings := newSettings(babelTarget)
		settings.Recursive = true

		// when
		report, err := cmd.Execute(context.Background(), settings, commands.ScanOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, report.Partial(), 1)
		assert.Empty(t, report.Exact())
		assert.Equal(t, "frontend/package-lock.json", report.Partial()[0].SourcePath)
		assert.Equal(t, "7.24.9", report.Partial()[0].InstalledVersion)
		assert.Equal(t, "7.26.0", report.Partial()[0].TargetVersion)
		assert.Len(t, reports.Reports, 1)
	})

	t.Run("should not look into nested lockfiles without recursive mode", func(t *testing.T) {
		t.Parallel()

		// given
		repo := entitybuilders.NewRepositoryBuilder().WithName("monorepo").BuildRepository()
		spy := &doubles.SpyProviderRepository{
			Repositories: []entities.Repository{repo},
			Trees: map[string][]entities.File{
				doubles.BranchKey("monorepo", "master"): {{Path: "frontend/package-lock.json"}},
			},
			Contents: map[string]string{
				doubles.FileKey("monorepo", "master", "frontend/package-lock.json"): `{
  "lockfileVersion": 2,
  "packages": {"node_modules/@babel/core": {"version": "7.24.9"}}
}`,
			},
		}
		reports := &doubles.SpyReportRepository{}
		cmd := commands.NewScanCommand(newProviderRegistry(spy), newParserRegistry(), spyReportFactory(reports, nil))

		// when
		report, err := cmd.Execute(context.Background(), newSettings(babelTarget), commands.ScanOptions{})

		// then
		require.NoError(t, err)
		assert.Empty(t, report.Results)
		assert.Equal(t, 1, report.Repositories)
		assert.NotContains(t, spy.FetchedFiles, doubles.FileKey("monorepo", "master", "frontend/package-lock.json"))
		assert.Len(t, reports.Reports, 1)
	})

	t.Run("should write an exact match declared in a root package descriptor", func(t *testing.T) {
		t.Parallel()

		// given
		target := entities.TargetPackage{Name: "@hestjs/logger", Version: "0.1.6"}
		repo := entitybuilders.NewRepositoryBuilder().WithName("hest-api").BuildRepository()
		spy := &doubles.SpyProviderRepository{
			Repositories: []entities.Repository{repo},
			Contents: map[string]string{
				doubles.FileKey("hest-api", "master", "package.json"): `{
  "name": "hest-api",
  "dependencies": {"@hestjs/logger": "0.1.6"}
}`,
			},
		}
		cmd := commands.NewScanCommand(newProviderRegistry(spy), newParserRegistry(), infraRepos.NewReportFactory())
		settings := newSettings(target)
		settings.OutputDir = filepath.Join(t.TempDir(), "results")

		// when
		report, err := cmd.Execute(context.Background(), settings, commands.ScanOptions{Console: &bytes.Buffer{}})

		// then
		require.NoError(t, err)
		require.Len(t, report.Exact(), 1)
		assert.Empty(t, report.Partial())
		assert.Equal(t, "package.json", report.Exact()[0].SourcePath)
		assert.Equal(t, "0.1.6", report.Exact()[0].InstalledVersion)

		exact, readErr := os.ReadFile(filepath.Join(settings.OutputDir, "exact_matches.txt"))
		require.NoError(t, readErr)
		assert.Contains(t, string(exact), "Repository: hest-api\n")
		assert.Contains(t, string(exact), "@hestjs/logger")
		assert.Contains(t, string(exact), "package.json")
	})

	t.Run("should keep going when a manifest is malformed", func(t *testing.T) {
		t.Parallel()

		// given
		repo := entitybuilders.NewRepositoryBuilder().WithName("web").BuildRepository()
		spy := &doubles.SpyProviderRepository{
			Repositories: []entities.Repository{repo},
			Contents: map[string]string{
				doubles.FileKey("web", "master", "package.json"): `{"dependencies": {`,
				doubles.FileKey("web", "master", "yarn.lock"):    "\"@babel/core@^7.0.0\":\n  version \"7.26.0\"\n",
			},
		}
		reports := &doubles.SpyReportRepository{}
		cmd := commands.NewScanCommand(newProviderRegistry(spy), newParserRegistry(), spyReportFactory(reports, nil))

		// when
		report, err := cmd.Execute(context.Background(), newSettings(babelTarget), commands.ScanOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "yarn.lock", report.Results[0].SourcePath)
		assert.True(t, report.Results[0].IsExact())
	})

	t.Run("should write an empty report when the account has no repositories", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{}
		reports := &doubles.SpyReportRepository{}
		var outputDirs []string
		cmd := commands.NewScanCommand(newProviderRegistry(spy), newParserRegistry(), spyReportFactory(reports, &outputDirs))
		settings := newSettings(babelTarget)

		// when
		report, err := cmd.Execute(context.Background(), settings, commands.ScanOptions{})

		// then
		require.NoError(t, err)
		assert.Zero(t, report.Repositories)
		assert.Empty(t, report.Results)
		assert.Equal(t, []string{settings.OutputDir}, outputDirs)
		assert.Equal(t, "openedx", reports.LastReport().Account)
	})

	t.Run("should abort without writing a report when the rate limit is exhausted", func(t *testing.T) {
		t.Parallel()

		// given
		repo := entitybuilders.NewRepositoryBuilder().WithName("web").BuildRepository()
		spy := &doubles.SpyProviderRepository{
			Repositories: []entities.Repository{repo},
			FileErrors: map[string]error{
				doubles.FileKey("web", "master", "package.json"): repositories.ErrRateLimitExhausted,
			},
		}
		reports := &doubles.SpyReportRepository{}
		cmd := commands.NewScanCommand(newProviderRegistry(spy), newParserRegistry(), spyReportFactory(reports, nil))

		// when
		report, err := cmd.Execute(context.Background(), newSettings(babelTarget), commands.ScanOptions{})

		// then
		require.ErrorIs(t, err, repositories.ErrRateLimitExhausted)
		assert.Nil(t, report)
		assert.Empty(t, reports.Reports)
	})

	t.Run("should return the report writer's error", func(t *testing.T) {
		t.Parallel()

		// given
		failure := errors.New("read-only file system")
		reports := &doubles.SpyReportRepository{WriteErr: failure}
		cmd := commands.NewScanCommand(
			newProviderRegistry(&doubles.SpyProviderRepository{}), newParserRegistry(), spyReportFactory(reports, nil),
		)

		// when
		_, err := cmd.Execute(context.Background(), newSettings(babelTarget), commands.ScanOptions{})

		// then
		assert.ErrorIs(t, err, failure)
	})

	t.Run("should fail for an unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		reports := &doubles.SpyReportRepository{}
		registry := newProviderRegistry(&doubles.SpyProviderRepository{})
		cmd := commands.NewScanCommand(registry, newParserRegistry(), spyReportFactory(reports, nil))

		// when
		_, err := cmd.Execute(context.Background(), newSettings(babelTarget), commands.ScanOptions{ProviderName: "gitlab"})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gitlab")
		assert.Contains(t, err.Error(), "registered: github, gitlocal")
		assert.Empty(t, reports.Reports)
	})
}
