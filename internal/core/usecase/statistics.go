package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	"github.com/samber/lo"
)

// Статистика считается по всему каталогу без фильтров.
// Пустой каталог дает пустые списки и диапазоны {0,0}.

type ListMakesUseCase struct {
	repo port.StatisticsRepositoryPort
}

func NewListMakesUseCase(repo port.StatisticsRepositoryPort) *ListMakesUseCase {
	return &ListMakesUseCase{repo: repo}
}

func (uc *ListMakesUseCase) Execute(ctx context.Context) ([]string, error) {
	useCaseLogger(ctx, "ListMakesUseCase").Debug("Use case started", nil)

	makes, err := uc.repo.ListMakes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list makes: %w", err)
	}
	if makes == nil {
		makes = []string{}
	}
	return makes, nil
}

type ListModelsUseCase struct {
	repo port.StatisticsRepositoryPort
}

func NewListModelsUseCase(repo port.StatisticsRepositoryPort) *ListModelsUseCase {
	return &ListModelsUseCase{repo: repo}
}

// Execute возвращает уникальные отсортированные модели указанных марок
func (uc *ListModelsUseCase) Execute(ctx context.Context, makes []string) ([]string, error) {
	makes = lo.Uniq(lo.Compact(lo.Map(makes, func(m string, _ int) string { return strings.TrimSpace(m) })))
	useCaseLogger(ctx, "ListModelsUseCase").Debug("Use case started", port.Fields{"makes": makes})

	if len(makes) == 0 {
		return []string{}, nil
	}

	models, err := uc.repo.ListModelsByMakes(ctx, makes)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if models == nil {
		models = []string{}
	}
	return models, nil
}

type YearRangeUseCase struct {
	repo port.StatisticsRepositoryPort
}

func NewYearRangeUseCase(repo port.StatisticsRepositoryPort) *YearRangeUseCase {
	return &YearRangeUseCase{repo: repo}
}

func (uc *YearRangeUseCase) Execute(ctx context.Context) (domain.IntRange, error) {
	useCaseLogger(ctx, "YearRangeUseCase").Debug("Use case started", nil)

	r, err := uc.repo.YearRange(ctx)
	if err != nil {
		return domain.IntRange{}, fmt.Errorf("year range: %w", err)
	}
	return r, nil
}

type PriceRangeUseCase struct {
	repo port.StatisticsRepositoryPort
}

func NewPriceRangeUseCase(repo port.StatisticsRepositoryPort) *PriceRangeUseCase {
	return &PriceRangeUseCase{repo: repo}
}

func (uc *PriceRangeUseCase) Execute(ctx context.Context) (domain.PriceRange, error) {
	useCaseLogger(ctx, "PriceRangeUseCase").Debug("Use case started", nil)

	r, err := uc.repo.PriceRange(ctx)
	if err != nil {
		return domain.PriceRange{}, fmt.Errorf("price range: %w", err)
	}
	return r, nil
}
