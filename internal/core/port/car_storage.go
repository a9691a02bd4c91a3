package port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

// CarStoragePort - хранилище агрегата автомобиля.
// Операции записи выполняются в ambient-транзакции из ctx, если она есть.
type CarStoragePort interface {
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	Search(ctx context.Context, filter domain.CarFilter, page domain.PageRequest) (*domain.PaginatedCars, error)
	Create(ctx context.Context, m domain.CarMutation) (int64, error)
	Update(ctx context.Context, id int64, m domain.CarMutation) error
	Delete(ctx context.Context, id int64) error
}

type PhotoRepositoryPort interface {
	ListByCar(ctx context.Context, carID int64) ([]domain.Photo, error)
	GetByID(ctx context.Context, photoID int64) (*domain.Photo, error)
	Add(ctx context.Context, carID int64, url string, isMain bool) (*domain.Photo, error)
	Delete(ctx context.Context, photoID int64) error
	DeleteByCar(ctx context.Context, carID int64) error
	// SetMainPhotoURL перезаписывает главное фото автомобиля и флаги фотографий
	SetMainPhotoURL(ctx context.Context, carID int64, url *string) error
}
