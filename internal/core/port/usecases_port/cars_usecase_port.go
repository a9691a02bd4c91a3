package usecases_port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

type GetCarByIDUseCase interface {
	Execute(ctx context.Context, id int64) (*domain.CarView, error)
}

type SearchCarsUseCase interface {
	Execute(ctx context.Context, filter domain.CarFilter, page domain.PageRequest) (*domain.PaginatedCarViews, error)
}

type CreateCarUseCase interface {
	Execute(ctx context.Context, in domain.CarInput) (*domain.CarView, error)
}

type CreateCarWithPhotosUseCase interface {
	Execute(ctx context.Context, in domain.CarInput, mainPhoto *domain.UploadedFile, photos []domain.UploadedFile) (*domain.CarView, error)
}

type UpdateCarUseCase interface {
	Execute(ctx context.Context, id int64, in domain.CarInput) (*domain.CarView, error)
}

type DeleteCarUseCase interface {
	Execute(ctx context.Context, id int64) error
}
