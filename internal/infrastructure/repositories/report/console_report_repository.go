package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

const (
	exactIndicator   = "✓"
	partialIndicator = "✗"
)

// ConsoleReportRepository prints the results grouped by repository and branch.
type ConsoleReportRepository struct {
	out io.Writer
}

// NewConsoleReportRepository creates a console report printing to out.
func NewConsoleReportRepository(out io.Writer) repositories.ReportRepository {
	return &ConsoleReportRepository{out: out}
}

func (r *ConsoleReportRepository) Write(_ context.Context, report entities.Report) error {
	rule := strings.Repeat("=", lineLen)

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\nRESULTS\n%s\n", rule, rule)

	results := sortResults(report.Results)
	if len(results) == 0 {
		sb.WriteString("\nNo repositories found with the target packages.\n")
	}

	repos := 0
	lastRepo, lastBranch := "", ""
	for i, m := range results {
		if i == 0 || m.Repository != lastRepo {
			repos++
			fmt.Fprintf(&sb, "\n📦 Repository: %s\n   URL: %s\n", m.Repository, m.RepositoryURL)
			lastRepo, lastBranch = m.Repository, ""
		}
		if m.Branch != lastBranch {
			fmt.Fprintf(&sb, "\n   Branch: %s\n   Packages found:\n", m.Branch)
			lastBranch = m.Branch
		}

		indicator := partialIndicator
		if m.IsExact() {
			indicator = exactIndicator
		}
		fmt.Fprintf(&sb, "     %s %s (%s)\n", indicator, m.PackageName, m.SourcePath)
		fmt.Fprintf(&sb, "       Target: %s\n", m.TargetVersion)
		fmt.Fprintf(&sb, "       Installed: %s\n", m.InstalledVersion)
	}

	if repos > 0 {
		fmt.Fprintf(&sb, "\n\nTotal repositories with target packages: %d\n", repos)
	}
	fmt.Fprintf(&sb, "Repositories scanned: %d, exact matches: %d, partial matches: %d\n",
		report.Repositories, len(report.Exact()), len(report.Partial()))
	fmt.Fprintf(&sb, "%s\n", rule)

	if _, err := io.WriteString(r.out, sb.String()); err != nil {
		return fmt.Errorf("failed to print results: %w", err)
	}
	return nil
}
