package usecases_port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

type ImportListingsUseCase interface {
	Execute(ctx context.Context, listings []domain.ParsedListing) (*domain.ImportStats, error)
}

type FetchListingsUseCase interface {
	Execute(ctx context.Context, url string, details bool) ([]domain.ParsedListing, error)
}

type FetchAndImportUseCase interface {
	Execute(ctx context.Context, url string, details bool) (*domain.ImportStats, error)
}

// ProcessParsedCarsUseCase сохраняет пачку из очереди и отправляет отчет
type ProcessParsedCarsUseCase interface {
	Execute(ctx context.Context, sourceURL string, listings []domain.ParsedListing) error
}
