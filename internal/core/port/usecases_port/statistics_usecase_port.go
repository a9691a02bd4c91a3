package usecases_port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

type ListMakesUseCase interface {
	Execute(ctx context.Context) ([]string, error)
}

type ListModelsUseCase interface {
	Execute(ctx context.Context, makes []string) ([]string, error)
}

type YearRangeUseCase interface {
	Execute(ctx context.Context) (domain.IntRange, error)
}

type PriceRangeUseCase interface {
	Execute(ctx context.Context) (domain.PriceRange, error)
}
