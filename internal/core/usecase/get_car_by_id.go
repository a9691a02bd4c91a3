package usecase

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/assembler"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

type GetCarByIDUseCase struct {
	cars port.CarStoragePort
}

func NewGetCarByIDUseCase(cars port.CarStoragePort) *GetCarByIDUseCase {
	return &GetCarByIDUseCase{cars: cars}
}

func (uc *GetCarByIDUseCase) Execute(ctx context.Context, id int64) (*domain.CarView, error) {
	ucLogger := useCaseLogger(ctx, "GetCarByIDUseCase")
	ucLogger.Debug("Use case started", port.Fields{"car_id": id})

	car, err := uc.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := assembler.ToTransfer(*car)
	return &view, nil
}
