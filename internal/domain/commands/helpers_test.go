//go:build unit

package commands_test

import (
	"io"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories"
	"github.com/rios0rios0/pkgscan/internal/infrastructure/repositories/npm"
	doubles "github.com/rios0rios0/pkgscan/test/infrastructure/repositorydoubles"
)

func newParserRegistry() *infraRepos.ParserRegistry {
	registry := infraRepos.NewParserRegistry()
	registry.Register(npm.NewPackageJSONParserRepository())
	registry.Register(npm.NewPackageLockParserRepository())
	registry.Register(npm.NewYarnLockParserRepository())
	return registry
}

func newProviderRegistry(spy *doubles.SpyProviderRepository) *infraRepos.ProviderRegistry {
	registry := infraRepos.NewProviderRegistry()
	factory := func(_ repositories.ProviderConfig) (repositories.ProviderRepository, error) {
		return spy, nil
	}
	registry.Register(infraRepos.ProviderGitHub, factory)
	registry.Register(infraRepos.ProviderGitLocal, factory)
	return registry
}

// spyReportFactory hands every run's report to spy and records the requested
// output directories.
func spyReportFactory(spy *doubles.SpyReportRepository, outputDirs *[]string) infraRepos.ReportFactory {
	return func(outputDir string, _ io.Writer) repositories.ReportRepository {
		if outputDirs != nil {
			*outputDirs = append(*outputDirs, outputDir)
		}
		return spy
	}
}

func newSettings(packages ...entities.TargetPackage) *entities.Settings {
	settings := entities.NewSettings()
	settings.Packages = packages
	return settings
}

const lockWithBabel = `{
  "lockfileVersion": 3,
  "packages": {
    "": {"name": "app", "version": "1.0.0"},
    "node_modules/@babel/core": {"version": "7.26.0"}
  }
}`
