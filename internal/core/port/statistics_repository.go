package port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

type StatisticsRepositoryPort interface {
	ListMakes(ctx context.Context) ([]string, error)
	// ListModelsByMakes сравнивает марки без учета регистра
	ListModelsByMakes(ctx context.Context, makes []string) ([]string, error)
	YearRange(ctx context.Context) (domain.IntRange, error)
	PriceRange(ctx context.Context) (domain.PriceRange, error)
}
