package usecases_port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

type UploadPhotosUseCase interface {
	Execute(ctx context.Context, carID int64, files []domain.UploadedFile) ([]string, error)
}

type ReplacePhotosUseCase interface {
	Execute(ctx context.Context, carID int64, files []domain.UploadedFile) ([]string, error)
}

type DeletePhotoUseCase interface {
	Execute(ctx context.Context, carID, photoID int64) error
}
