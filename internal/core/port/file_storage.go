package port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

// FileStoragePort - хранилище файлов фотографий
type FileStoragePort interface {
	Store(ctx context.Context, carID int64, file domain.UploadedFile) (string, error)
	// Delete удаляет только файлы каталога carID, на чужой URL возвращает domain.ErrForeignFile
	Delete(ctx context.Context, carID int64, url string) error
	DeleteCarDirectory(ctx context.Context, carID int64) error
}
