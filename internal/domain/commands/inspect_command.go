package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	domainRepos "github.com/rios0rios0/pkgscan/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/pkgscan/internal/infrastructure/repositories"
)

const localBranch = "-"

// Inspect is the interface for the inspect command (offline mode).
type Inspect interface {
	Execute(ctx context.Context, targets []entities.TargetPackage, opts InspectOptions) (*entities.Report, error)
}

// InspectOptions holds the manifest files to check.
type InspectOptions struct {
	Paths   []string
	Console io.Writer // os.Stdout when nil
}

// InspectCommand checks manifest files on disk without any network access.
// Results go to the console only.
type InspectCommand struct {
	parserRegistry *infraRepos.ParserRegistry
	reportFactory  infraRepos.ReportFactory
}

// NewInspectCommand creates a new InspectCommand.
func NewInspectCommand(
	parserRegistry *infraRepos.ParserRegistry,
	reportFactory infraRepos.ReportFactory,
) *InspectCommand {
	return &InspectCommand{
		parserRegistry: parserRegistry,
		reportFactory:  reportFactory,
	}
}

// Execute parses every path and prints the matches. Unreadable or unsupported
// files are errors because the user named them explicitly.
func (it *InspectCommand) Execute(
	ctx context.Context,
	targets []entities.TargetPackage,
	opts InspectOptions,
) (*entities.Report, error) {
	var results []entities.MatchResult
	for _, path := range opts.Paths {
		file, parser, err := it.readManifest(path)
		if err != nil {
			return nil, err
		}

		entries, err := parser.Parse(file.Content, file.Path)
		if err != nil {
			logger.Warnf("Could not parse %s, ignoring it: %v", file.Path, err)
			continue
		}
		for _, entry := range entries {
			results = append(results, entities.Classify(file.Repository, file.Branch, entry, targets)...)
		}
	}

	report := entities.Report{
		RunID:        uuid.NewString(),
		Account:      "local",
		GeneratedAt:  time.Now(),
		Repositories: len(opts.Paths),
		Results:      results,
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	if err := it.reportFactory("", console).Write(ctx, report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (it *InspectCommand) readManifest(
	path string,
) (entities.ManifestFile, domainRepos.ManifestParserRepository, error) {
	parser, err := it.parserRegistry.ForPath(path)
	if err != nil {
		expected := make([]string, 0, len(it.parserRegistry.Formats()))
		for _, format := range it.parserRegistry.Formats() {
			expected = append(expected, string(format))
		}
		return entities.ManifestFile{}, nil, fmt.Errorf(
			"unsupported manifest %q: expected one of %s", path, strings.Join(expected, ", "),
		)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return entities.ManifestFile{}, nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	absDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		absDir = filepath.Dir(path)
	}

	return entities.ManifestFile{
		Repository: entities.Repository{
			Name: filepath.Base(absDir),
			URL:  "file://" + filepath.ToSlash(absDir),
		},
		Branch:  localBranch,
		Path:    filepath.ToSlash(path),
		Format:  parser.Format(),
		Content: content,
	}, parser, nil
}
