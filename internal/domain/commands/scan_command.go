package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories"
)

// Scan is the interface for the scan command.
type Scan interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ScanOptions) (*entities.Report, error)
}

// ScanOptions holds runtime options for a single scan.
type ScanOptions struct {
	ProviderName string    // "github" unless scanning a local clone
	Location     string    // provider location (API base URL or clone path)
	Console      io.Writer // results summary; os.Stdout when nil
}

// ScanCommand walks the repositories of an account, parses every manifest it
// finds and classifies the entries against the target packages.
type ScanCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	parserRegistry   *infraRepos.ParserRegistry
	reportFactory    infraRepos.ReportFactory
}

// NewScanCommand creates a new ScanCommand with the given registries.
func NewScanCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	parserRegistry *infraRepos.ParserRegistry,
	reportFactory infraRepos.ReportFactory,
) *ScanCommand {
	return &ScanCommand{
		providerRegistry: providerRegistry,
		parserRegistry:   parserRegistry,
		reportFactory:    reportFactory,
	}
}

// Execute runs the scan. It fails only on provider setup problems, a failed
// repository listing, rate-limit exhaustion or a report that cannot be written.
func (it *ScanCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ScanOptions,
) (*entities.Report, error) {
	providerName := opts.ProviderName
	if providerName == "" {
		providerName = infraRepos.ProviderGitHub
	}

	provider, err := it.providerRegistry.Get(providerName, repositories.ProviderConfig{
		Token:            settings.Token,
		Location:         opts.Location,
		RequestTimeout:   settings.RequestTimeout,
		MaxRateLimitWait: settings.MaxRateLimitWait,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %q: %w", providerName, err)
	}

	logHeader(settings, provider.Name())

	var results []entities.MatchResult
	walker := NewRepositoryWalker(provider)
	walked, err := walker.Walk(ctx, WalkOptions{
		Account:    settings.Account,
		Repository: settings.Repository,
		Branches:   settings.Branches,
		Recursive:  settings.Recursive,
	}, func(file entities.ManifestFile) error {
		results = append(results, it.inspect(file, settings.Packages)...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan of %q aborted: %w", settings.Account, err)
	}

	report := entities.Report{
		RunID:        uuid.NewString(),
		Account:      settings.Account,
		GeneratedAt:  time.Now(),
		Repositories: walked,
		Results:      results,
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	if writeErr := it.reportFactory(settings.OutputDir, console).Write(ctx, report); writeErr != nil {
		return nil, writeErr
	}

	return &report, nil
}

// inspect parses one manifest and classifies its entries. Parse failures are
// logged and contribute no entries.
func (it *ScanCommand) inspect(file entities.ManifestFile, targets []entities.TargetPackage) []entities.MatchResult {
	entries := parseManifest(it.parserRegistry, file)

	var results []entities.MatchResult
	for _, entry := range entries {
		for _, result := range entities.Classify(file.Repository, file.Branch, entry, targets) {
			logMatch(result)
			results = append(results, result)
		}
	}
	return results
}

func parseManifest(registry *infraRepos.ParserRegistry, file entities.ManifestFile) []entities.ManifestEntry {
	parser, err := registry.Get(file.Format)
	if err != nil {
		logger.Warnf("Skipping %s in %s@%s: %v", file.Path, file.Repository.Name, file.Branch, err)
		return nil
	}

	entries, err := parser.Parse(file.Content, file.Path)
	if err != nil {
		logger.Warnf("Could not parse %s in %s@%s, ignoring it: %v", file.Path, file.Repository.Name, file.Branch, err)
		return nil
	}

	logger.Debugf("%s in %s@%s: %d entries", file.Path, file.Repository.Name, file.Branch, len(entries))
	return entries
}

func logMatch(result entities.MatchResult) {
	if result.IsExact() {
		logger.Infof("  ✓ %s@%s in %s (%s, target %s)",
			result.PackageName, result.InstalledVersion, result.SourcePath, result.Branch, result.TargetVersion)
		return
	}
	logger.Infof("  ✗ %s@%s in %s (%s, target %s)",
		result.PackageName, result.InstalledVersion, result.SourcePath, result.Branch, result.TargetVersion)
}

func logHeader(settings *entities.Settings, providerName string) {
	logger.Infof("Package checker (%s provider), account: %s", providerName, settings.Account)
	for _, pkg := range settings.Packages {
		logger.Infof("  target package: %s", pkg)
	}

	if len(settings.Branches) > 0 {
		for _, branch := range settings.Branches {
			logger.Infof("  target branch: %s", branch)
		}
	} else {
		logger.Info("Checking default branch only (no target branches configured)")
	}

	if settings.Repository != "" {
		logger.Infof("Checking specific repository: %s", settings.Repository)
	}
	if settings.Recursive {
		logger.Info("Recursive mode: looking for manifests in every directory")
	}
	if !settings.Authenticated() && providerName == infraRepos.ProviderGitHub {
		logger.Warnf("%s is not set: public repositories only, with a low API rate limit", entities.TokenEnvVar)
	}
}
