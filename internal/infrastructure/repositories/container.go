package repositories

import (
	"io"

	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/pkgscan/internal/domain/repositories"
	ghRepo "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories/github"
	localRepo "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories/gitlocal"
	npmRepo "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories/npm"
	reportRepo "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories/report"
)

const (
	ProviderGitHub   = "github"
	ProviderGitLocal = "gitlocal"
)

// ReportFactory builds the report writers of one run. An empty outputDir
// means console output only.
type ReportFactory func(outputDir string, console io.Writer) domainRepos.ReportRepository

// NewReportFactory returns the factory writing the console summary followed by
// the text report files.
func NewReportFactory() ReportFactory {
	return func(outputDir string, console io.Writer) domainRepos.ReportRepository {
		writers := []domainRepos.ReportRepository{reportRepo.NewConsoleReportRepository(console)}
		if outputDir != "" {
			writers = append(writers, reportRepo.NewTextReportRepository(outputDir))
		}
		return reportRepo.NewMultiReportRepository(writers...)
	}
}

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all provider factories
	if err := container.Provide(func() *ProviderRegistry {
		reg := NewProviderRegistry()
		reg.Register(ProviderGitHub, ghRepo.NewGitHubProviderRepository)
		reg.Register(ProviderGitLocal, localRepo.NewGitLocalProviderRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register parser registry with one parser per manifest format
	if err := container.Provide(func() *ParserRegistry {
		reg := NewParserRegistry()
		reg.Register(npmRepo.NewPackageJSONParserRepository())
		reg.Register(npmRepo.NewPackageLockParserRepository())
		reg.Register(npmRepo.NewYarnLockParserRepository())
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(NewReportFactory); err != nil {
		return err
	}

	return nil
}
