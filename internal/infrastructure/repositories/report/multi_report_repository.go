package report

import (
	"context"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

// MultiReportRepository hands the same report to several writers, stopping at
// the first failure.
type MultiReportRepository struct {
	writers []repositories.ReportRepository
}

// NewMultiReportRepository combines writers in the given order.
func NewMultiReportRepository(writers ...repositories.ReportRepository) repositories.ReportRepository {
	return &MultiReportRepository{writers: writers}
}

func (r *MultiReportRepository) Write(ctx context.Context, report entities.Report) error {
	for _, w := range r.writers {
		if err := w.Write(ctx, report); err != nil {
			return err
		}
	}
	return nil
}
