package usecase

import (
	"context"
	"fmt"

	"github.com/Newichka/autoBro/internal/core/port"
)

type DeleteCarUseCase struct {
	cars  port.CarStoragePort
	files port.FileStoragePort
}

func NewDeleteCarUseCase(cars port.CarStoragePort, files port.FileStoragePort) *DeleteCarUseCase {
	return &DeleteCarUseCase{cars: cars, files: files}
}

// Execute удаляет агрегат каскадно, затем пытается удалить файлы фотографий
// и каталог автомобиля. Ошибки очистки файлов не отменяют удаление записи.
func (uc *DeleteCarUseCase) Execute(ctx context.Context, id int64) error {
	ucLogger := useCaseLogger(ctx, "DeleteCarUseCase").WithFields(port.Fields{"car_id": id})
	ucLogger.Info("Use case started", nil)

	car, err := uc.cars.GetByID(ctx, id)
	if err != nil {
		logWriteError(ucLogger, "Failed to load car for deletion", err)
		return err
	}
	urls := car.PhotoURLs()

	if err := uc.cars.Delete(ctx, id); err != nil {
		logWriteError(ucLogger, "Failed to delete car", err)
		return fmt.Errorf("delete car %d: %w", id, err)
	}

	failed := cleanupFiles(ctx, uc.files, ucLogger, id, urls)
	if err := uc.files.DeleteCarDirectory(ctx, id); err != nil {
		ucLogger.Warn("Failed to remove car photo directory", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"photos": len(urls), "file_cleanup_failures": failed})
	return nil
}
