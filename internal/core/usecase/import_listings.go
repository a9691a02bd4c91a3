package usecase

import (
	"context"
	"errors"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

// ImportListingsUseCase сохраняет объявления по одному, каждое в своей транзакции.
// Ошибка одного объявления не прерывает пачку.
type ImportListingsUseCase struct {
	writer *CarWriter
}

func NewImportListingsUseCase(writer *CarWriter) *ImportListingsUseCase {
	return &ImportListingsUseCase{writer: writer}
}

func (uc *ImportListingsUseCase) Execute(ctx context.Context, listings []domain.ParsedListing) (*domain.ImportStats, error) {
	ucLogger := useCaseLogger(ctx, "ImportListingsUseCase")
	ucLogger.Info("Use case started", port.Fields{"listings": len(listings)})

	stats := &domain.ImportStats{
		Received:   len(listings),
		CreatedIDs: []int64{},
		Failures:   []domain.ImportFailure{},
	}

	for i, listing := range listings {
		if err := ctx.Err(); err != nil {
			ucLogger.Warn("Import interrupted", port.Fields{"processed": i, "error": err.Error()})
			return stats, err
		}

		car, err := uc.writer.Create(ctx, listingToInput(listing), nil)
		if err != nil {
			stats.Failed++
			stats.Failures = append(stats.Failures, domain.ImportFailure{Index: i, URL: listing.URL, Reason: err.Error()})

			fields := port.Fields{"index": i, "url": listing.URL}
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				fields["fields"] = vErr.Fields
				ucLogger.Warn("Listing rejected by validation", fields)
			} else {
				ucLogger.Error("Failed to save listing", err, fields)
			}
			continue
		}

		stats.Created++
		stats.CreatedIDs = append(stats.CreatedIDs, car.ID)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"created": stats.Created, "failed": stats.Failed})
	return stats, nil
}
