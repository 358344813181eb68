package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

const (
	ExactMatchesFile   = "exact_matches.txt"
	PartialMatchesFile = "partial_matches.txt"

	dirMode  = 0o755
	fileMode = 0o644
	lineLen  = 80
)

// TextReportRepository writes the exact and partial match reports into a
// directory. Both files are rewritten on every run.
type TextReportRepository struct {
	outputDir string
}

// NewTextReportRepository creates a text report writer for outputDir.
func NewTextReportRepository(outputDir string) repositories.ReportRepository {
	return &TextReportRepository{outputDir: outputDir}
}

func (r *TextReportRepository) Write(_ context.Context, report entities.Report) error {
	if err := os.MkdirAll(r.outputDir, dirMode); err != nil {
		return fmt.Errorf("failed to create report directory %q: %w", r.outputDir, err)
	}

	files := []struct {
		name    string
		title   string
		results []entities.MatchResult
	}{
		{ExactMatchesFile, "EXACT MATCHES: Repositories with exact package and version matches", report.Exact()},
		{PartialMatchesFile, "PARTIAL MATCHES: Repositories with same package but different version", report.Partial()},
	}

	for _, f := range files {
		path := filepath.Join(r.outputDir, f.name)
		content := renderTextReport(f.title, report, sortResults(f.results))
		if err := os.WriteFile(path, []byte(content), fileMode); err != nil {
			return fmt.Errorf("failed to write report %q: %w", path, err)
		}
		logger.Infof("Report written: %s (%d matches)", path, len(f.results))
	}

	return nil
}

func renderTextReport(title string, report entities.Report, results []entities.MatchResult) string {
	rule := strings.Repeat("=", lineLen)
	separator := strings.Repeat("-", lineLen)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n%s\n", rule, title, rule)
	fmt.Fprintf(&sb, "Run ID: %s\n", report.RunID)
	fmt.Fprintf(&sb, "Account: %s\n", report.Account)
	fmt.Fprintf(&sb, "Generated: %s\n\n", report.GeneratedAt.UTC().Format(time.RFC3339))

	if len(results) == 0 {
		sb.WriteString("No matches found.\n")
		return sb.String()
	}

	for _, m := range results {
		fmt.Fprintf(&sb, "Repository: %s\n", m.Repository)
		fmt.Fprintf(&sb, "URL: %s\n", m.RepositoryURL)
		fmt.Fprintf(&sb, "Branch: %s\n", m.Branch)
		fmt.Fprintf(&sb, "Package: %s (%s)\n", m.PackageName, m.SourcePath)
		fmt.Fprintf(&sb, "Target Version: %s\n", m.TargetVersion)
		fmt.Fprintf(&sb, "Installed Version: %s\n", m.InstalledVersion)
		if m.RangeAdmitsTarget {
			fmt.Fprintf(&sb, "Note: range %s can resolve to %s\n", m.InstalledVersion, m.TargetVersion)
		}
		fmt.Fprintf(&sb, "%s\n\n", separator)
	}
	fmt.Fprintf(&sb, "Total matches: %d\n", len(results))

	return sb.String()
}
