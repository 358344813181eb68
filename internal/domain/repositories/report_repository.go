package repositories

import (
	"context"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
)

// ReportRepository persists or displays a finished scan.
type ReportRepository interface {
	Write(ctx context.Context, report entities.Report) error
}
