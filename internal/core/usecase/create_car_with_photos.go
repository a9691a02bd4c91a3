package usecase

import (
	"context"
	"fmt"

	"github.com/Newichka/autoBro/internal/core/assembler"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

type CreateCarWithPhotosUseCase struct {
	writer *CarWriter
	photos port.PhotoRepositoryPort
	files  port.FileStoragePort
}

func NewCreateCarWithPhotosUseCase(writer *CarWriter, photos port.PhotoRepositoryPort, files port.FileStoragePort) *CreateCarWithPhotosUseCase {
	return &CreateCarWithPhotosUseCase{writer: writer, photos: photos, files: files}
}

// Execute создает автомобиль и его фотографии одной транзакцией.
// Главное фото становится явным mainPhotoUrl.
func (uc *CreateCarWithPhotosUseCase) Execute(ctx context.Context, in domain.CarInput, mainPhoto *domain.UploadedFile, photos []domain.UploadedFile) (*domain.CarView, error) {
	ucLogger := useCaseLogger(ctx, "CreateCarWithPhotosUseCase")
	ucLogger.Info("Use case started", port.Fields{"has_main_photo": mainPhoto != nil, "photos": len(photos)})

	var stored []string
	var createdID int64

	addPhotos := func(ctx context.Context, carID int64) error {
		createdID = carID
		if mainPhoto != nil {
			url, err := uc.files.Store(ctx, carID, *mainPhoto)
			if err != nil {
				return err
			}
			stored = append(stored, url)
			if _, err := uc.photos.Add(ctx, carID, url, true); err != nil {
				return fmt.Errorf("add main photo: %w", err)
			}
			if err := uc.photos.SetMainPhotoURL(ctx, carID, &url); err != nil {
				return fmt.Errorf("set main photo: %w", err)
			}
		}
		for _, f := range photos {
			url, err := uc.files.Store(ctx, carID, f)
			if err != nil {
				return err
			}
			stored = append(stored, url)
			if _, err := uc.photos.Add(ctx, carID, url, false); err != nil {
				return fmt.Errorf("add photo: %w", err)
			}
		}
		return nil
	}

	car, err := uc.writer.Create(ctx, in, addPhotos)
	if err != nil {
		logWriteError(ucLogger, "Failed to create car with photos", err)
		if len(stored) > 0 {
			cleanupFiles(ctx, uc.files, ucLogger, createdID, stored)
			if err := uc.files.DeleteCarDirectory(ctx, createdID); err != nil {
				ucLogger.Warn("Failed to remove photo directory of rolled back car", port.Fields{"car_id": createdID, "error": err.Error()})
			}
		}
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"car_id": car.ID, "stored_files": len(stored)})
	view := assembler.ToTransfer(*car)
	return &view, nil
}
