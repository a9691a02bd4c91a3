package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/Newichka/autoBro/internal/core/assembler"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	"github.com/samber/lo"
)

// maxSearchOffset - предел page*size, дальше OFFSET теряет смысл и может переполниться
const maxSearchOffset = math.MaxInt32

type SearchCarsUseCase struct {
	cars        port.CarStoragePort
	maxPageSize int
}

// NewSearchCarsUseCase ограничивает размер страницы maxPageSize (<= 0 - без ограничения)
func NewSearchCarsUseCase(cars port.CarStoragePort, maxPageSize int) *SearchCarsUseCase {
	return &SearchCarsUseCase{cars: cars, maxPageSize: maxPageSize}
}

func (uc *SearchCarsUseCase) Execute(ctx context.Context, filter domain.CarFilter, page domain.PageRequest) (*domain.PaginatedCarViews, error) {
	ucLogger := useCaseLogger(ctx, "SearchCarsUseCase")

	page = page.Normalize()
	if uc.maxPageSize > 0 && page.Size > uc.maxPageSize {
		ucLogger.Debug("Page size capped", port.Fields{"requested": page.Size, "max": uc.maxPageSize})
		page.Size = uc.maxPageSize
	}
	if page.Page > maxSearchOffset/page.Size {
		ucLogger.Warn("Rejected page beyond the offset limit", port.Fields{"page": page.Page, "size": page.Size})
		return nil, domain.NewValidationError(map[string]string{"page": fmt.Sprintf("must not exceed %d for size %d", maxSearchOffset/page.Size, page.Size)})
	}
	filter.Makes = lo.Compact(filter.Makes)

	ucLogger.Info("Use case started", port.Fields{"page": page.Page, "size": page.Size, "sort_by": page.SortBy})

	result, err := uc.cars.Search(ctx, filter, page)
	if err != nil {
		ucLogger.Error("Storage returned an error while searching cars", err, nil)
		return nil, fmt.Errorf("search cars: %w", err)
	}

	views := lo.Map(result.Items, func(car domain.Car, _ int) domain.CarView {
		return assembler.ToTransfer(car)
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"total": result.TotalCount, "returned": len(views)})
	return &domain.PaginatedCarViews{
		Items:      views,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Size:       result.Size,
	}, nil
}
