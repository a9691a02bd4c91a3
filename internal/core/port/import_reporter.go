package port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

type ImportReporterPort interface {
	ReportImport(ctx context.Context, report domain.ImportReport) error
}
