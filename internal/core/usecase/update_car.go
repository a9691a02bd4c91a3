package usecase

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/assembler"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

type UpdateCarUseCase struct {
	writer *CarWriter
	files  port.FileStoragePort
}

func NewUpdateCarUseCase(writer *CarWriter, files port.FileStoragePort) *UpdateCarUseCase {
	return &UpdateCarUseCase{writer: writer, files: files}
}

func (uc *UpdateCarUseCase) Execute(ctx context.Context, id int64, in domain.CarInput) (*domain.CarView, error) {
	ucLogger := useCaseLogger(ctx, "UpdateCarUseCase").WithFields(port.Fields{"car_id": id})
	ucLogger.Info("Use case started", nil)

	res, err := uc.writer.Update(ctx, id, in)
	if err != nil {
		logWriteError(ucLogger, "Failed to update car", err)
		return nil, err
	}

	// файлы удаленных из списка фотографий чистятся уже после фиксации
	if len(res.RemovedPhotoURLs) > 0 {
		cleanupFiles(ctx, uc.files, ucLogger, id, res.RemovedPhotoURLs)
	}

	ucLogger.Info("Use case finished successfully", nil)
	view := assembler.ToTransfer(*res.Car)
	return &view, nil
}
