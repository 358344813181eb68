//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

// SpyReportRepository implements repositories.ReportRepository and records
// every report it receives.
type SpyReportRepository struct {
	Reports  []entities.Report
	WriteErr error
}

var _ repositories.ReportRepository = (*SpyReportRepository)(nil)

func (r *SpyReportRepository) Write(_ context.Context, report entities.Report) error {
	r.Reports = append(r.Reports, report)
	return r.WriteErr
}

// LastReport returns the most recent report, or the zero value.
func (r *SpyReportRepository) LastReport() entities.Report {
	if len(r.Reports) == 0 {
		return entities.Report{}
	}
	return r.Reports[len(r.Reports)-1]
}
