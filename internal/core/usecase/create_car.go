package usecase

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/assembler"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

type CreateCarUseCase struct {
	writer *CarWriter
}

func NewCreateCarUseCase(writer *CarWriter) *CreateCarUseCase {
	return &CreateCarUseCase{writer: writer}
}

func (uc *CreateCarUseCase) Execute(ctx context.Context, in domain.CarInput) (*domain.CarView, error) {
	ucLogger := useCaseLogger(ctx, "CreateCarUseCase")
	ucLogger.Info("Use case started", nil)

	car, err := uc.writer.Create(ctx, in, nil)
	if err != nil {
		logWriteError(ucLogger, "Failed to create car", err)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"car_id": car.ID})
	view := assembler.ToTransfer(*car)
	return &view, nil
}
