package usecase

import (
	"context"
	"fmt"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

// photoStore - общая часть сценариев с фотографиями
type photoStore struct {
	cars   port.CarStoragePort
	photos port.PhotoRepositoryPort
	files  port.FileStoragePort
	tx     port.TransactorPort
}

// storeFiles пишет файлы до вставки строк. При ошибке уже записанные файлы удаляются.
func (s photoStore) storeFiles(ctx context.Context, logger port.LoggerPort, carID int64, files []domain.UploadedFile) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.files.Store(ctx, carID, f)
		if err != nil {
			cleanupFiles(ctx, s.files, logger, carID, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

type UploadPhotosUseCase struct {
	photoStore
}

func NewUploadPhotosUseCase(cars port.CarStoragePort, photos port.PhotoRepositoryPort, files port.FileStoragePort, tx port.TransactorPort) *UploadPhotosUseCase {
	return &UploadPhotosUseCase{photoStore{cars: cars, photos: photos, files: files, tx: tx}}
}

// Execute добавляет фотографии к уже имеющимся
func (uc *UploadPhotosUseCase) Execute(ctx context.Context, carID int64, files []domain.UploadedFile) ([]string, error) {
	ucLogger := useCaseLogger(ctx, "UploadPhotosUseCase").WithFields(port.Fields{"car_id": carID, "files": len(files)})
	ucLogger.Info("Use case started", nil)

	if _, err := uc.cars.GetByID(ctx, carID); err != nil {
		return nil, err
	}

	urls, err := uc.storeFiles(ctx, ucLogger, carID, files)
	if err != nil {
		ucLogger.Error("Failed to store photo files", err, nil)
		return nil, err
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, url := range urls {
			if _, err := uc.photos.Add(ctx, carID, url, false); err != nil {
				return fmt.Errorf("add photo: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		ucLogger.Error("Failed to save photo rows, removing stored files", err, nil)
		cleanupFiles(ctx, uc.files, ucLogger, carID, urls)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return urls, nil
}

type ReplacePhotosUseCase struct {
	photoStore
}

func NewReplacePhotosUseCase(cars port.CarStoragePort, photos port.PhotoRepositoryPort, files port.FileStoragePort, tx port.TransactorPort) *ReplacePhotosUseCase {
	return &ReplacePhotosUseCase{photoStore{cars: cars, photos: photos, files: files, tx: tx}}
}

// Execute заменяет набор фотографий целиком. Старые файлы удаляются после фиксации.
func (uc *ReplacePhotosUseCase) Execute(ctx context.Context, carID int64, files []domain.UploadedFile) ([]string, error) {
	ucLogger := useCaseLogger(ctx, "ReplacePhotosUseCase").WithFields(port.Fields{"car_id": carID, "files": len(files)})
	ucLogger.Info("Use case started", nil)

	car, err := uc.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	oldURLs := car.PhotoURLs()

	urls, err := uc.storeFiles(ctx, ucLogger, carID, files)
	if err != nil {
		ucLogger.Error("Failed to store photo files", err, nil)
		return nil, err
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.photos.DeleteByCar(ctx, carID); err != nil {
			return fmt.Errorf("clear photos: %w", err)
		}
		for _, url := range urls {
			if _, err := uc.photos.Add(ctx, carID, url, false); err != nil {
				return fmt.Errorf("add photo: %w", err)
			}
		}
		if car.MainPhotoRemoved(urls) {
			return uc.photos.SetMainPhotoURL(ctx, carID, nil)
		}
		return nil
	})
	if err != nil {
		ucLogger.Error("Failed to replace photo rows, removing stored files", err, nil)
		cleanupFiles(ctx, uc.files, ucLogger, carID, urls)
		return nil, err
	}

	cleanupFiles(ctx, uc.files, ucLogger, carID, oldURLs)

	ucLogger.Info("Use case finished successfully", port.Fields{"replaced": len(oldURLs)})
	return urls, nil
}

type DeletePhotoUseCase struct {
	photoStore
}

func NewDeletePhotoUseCase(cars port.CarStoragePort, photos port.PhotoRepositoryPort, files port.FileStoragePort, tx port.TransactorPort) *DeletePhotoUseCase {
	return &DeletePhotoUseCase{photoStore{cars: cars, photos: photos, files: files, tx: tx}}
}

// Execute удаляет одну фотографию. Фото другого автомобиля - ConflictError.
func (uc *DeletePhotoUseCase) Execute(ctx context.Context, carID, photoID int64) error {
	ucLogger := useCaseLogger(ctx, "DeletePhotoUseCase").WithFields(port.Fields{"car_id": carID, "photo_id": photoID})
	ucLogger.Info("Use case started", nil)

	car, err := uc.cars.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	photo, err := uc.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.CarID != carID {
		ucLogger.Warn("Photo belongs to another car", port.Fields{"owner_id": photo.CarID})
		return &domain.ConflictError{Reason: fmt.Sprintf("photo %d does not belong to car %d", photoID, carID)}
	}

	remaining := make([]string, 0, len(car.Photos))
	for _, p := range car.Photos {
		if p.ID != photoID && p.URL != "" {
			remaining = append(remaining, p.URL)
		}
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.photos.Delete(ctx, photoID); err != nil {
			return err
		}
		if car.MainPhotoRemoved(remaining) {
			return uc.photos.SetMainPhotoURL(ctx, carID, nil)
		}
		return nil
	})
	if err != nil {
		logWriteError(ucLogger, "Failed to delete photo", err)
		return err
	}

	cleanupFiles(ctx, uc.files, ucLogger, carID, []string{photo.URL})
	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
