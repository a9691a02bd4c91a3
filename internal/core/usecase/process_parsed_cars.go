package usecase

import (
	"context"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

// ProcessParsedCarsUseCase обрабатывает пачку объявлений из очереди парсера
type ProcessParsedCarsUseCase struct {
	importer *ImportListingsUseCase
	reporter port.ImportReporterPort
}

// NewProcessParsedCarsUseCase: reporter может быть nil, тогда отчет не отправляется
func NewProcessParsedCarsUseCase(importer *ImportListingsUseCase, reporter port.ImportReporterPort) *ProcessParsedCarsUseCase {
	return &ProcessParsedCarsUseCase{importer: importer, reporter: reporter}
}

func (uc *ProcessParsedCarsUseCase) Execute(ctx context.Context, sourceURL string, listings []domain.ParsedListing) error {
	ucLogger := useCaseLogger(ctx, "ProcessParsedCarsUseCase").WithFields(port.Fields{"source_url": sourceURL})
	ucLogger.Info("Use case started", port.Fields{"listings": len(listings)})

	if len(listings) == 0 {
		ucLogger.Info("Empty batch, nothing to import", nil)
		return nil
	}

	stats, err := uc.importer.Execute(ctx, listings)
	if err != nil {
		ucLogger.Error("Import interrupted", err, nil)
		return err
	}

	if uc.reporter != nil {
		report := domain.ImportReport{
			SourceURL: sourceURL,
			TraceID:   contextkeys.TraceIDFromContext(ctx),
			Stats:     *stats,
		}
		// объявления уже сохранены, недоставленный отчет не повод для повтора
		if err := uc.reporter.ReportImport(ctx, report); err != nil {
			ucLogger.Error("Failed to send import report", err, nil)
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"created": stats.Created, "failed": stats.Failed})
	return nil
}
