package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type photoDeps struct {
	cars   *mockCarStorage
	photos *mockPhotoRepo
	files  *mockFileStorage
	tx     *passthroughTx
}

func newPhotoDeps() photoDeps {
	return photoDeps{cars: &mockCarStorage{}, photos: &mockPhotoRepo{}, files: &mockFileStorage{}, tx: &passthroughTx{}}
}

func (d photoDeps) assertAll(t *testing.T) {
	d.cars.AssertExpectations(t)
	d.photos.AssertExpectations(t)
	d.files.AssertExpectations(t)
}

func TestDeletePhotoUseCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		photoID int64
		setup   func(d photoDeps)
		assert  func(t *testing.T, err error, d photoDeps)
	}{
		{
			name:    "photo of another car is a conflict",
			photoID: 50,
			setup: func(d photoDeps) {
				d.cars.On("GetByID", mock.Anything, int64(1)).Return(carWithPhotos(1, "/uploads/cars/1/a.jpg"), nil).Once()
				d.photos.On("GetByID", mock.Anything, int64(50)).Return(&domain.Photo{ID: 50, CarID: 2, URL: "/uploads/cars/2/x.jpg"}, nil).Once()
			},
			assert: func(t *testing.T, err error, d photoDeps) {
				assert.ErrorIs(t, err, domain.ErrConflict)
				d.photos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				assert.Equal(t, 0, d.tx.calls)
			},
		},
		{
			name:    "missing photo is not found",
			photoID: 50,
			setup: func(d photoDeps) {
				d.cars.On("GetByID", mock.Anything, int64(1)).Return(carWithPhotos(1), nil).Once()
				d.photos.On("GetByID", mock.Anything, int64(50)).Return(nil, domain.NewNotFoundError("photo", 50)).Once()
			},
			assert: func(t *testing.T, err error, d photoDeps) {
				assert.ErrorIs(t, err, domain.ErrNotFound)
			},
		},
		{
			name:    "deleting the main photo clears it",
			photoID: 1,
			setup: func(d photoDeps) {
				car := carWithPhotos(1, "/uploads/cars/1/a.jpg", "/uploads/cars/1/b.jpg")
				main := "/uploads/cars/1/a.jpg"
				car.MainPhotoURL = &main
				d.cars.On("GetByID", mock.Anything, int64(1)).Return(car, nil).Once()
				d.photos.On("GetByID", mock.Anything, int64(1)).Return(&car.Photos[0], nil).Once()
				d.photos.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
				d.photos.On("SetMainPhotoURL", mock.Anything, int64(1), (*string)(nil)).Return(nil).Once()
				d.files.On("Delete", mock.Anything, int64(1), "/uploads/cars/1/a.jpg").Return(errors.New("gone")).Once()
			},
			assert: func(t *testing.T, err error, d photoDeps) {
				require.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newPhotoDeps()
			tt.setup(d)

			err := NewDeletePhotoUseCase(d.cars, d.photos, d.files, d.tx).Execute(context.Background(), 1, tt.photoID)
			tt.assert(t, err, d)
			d.assertAll(t)
		})
	}
}

func TestUploadPhotosUseCase_CleansFilesOnRowFailure(t *testing.T) {
	t.Parallel()

	d := newPhotoDeps()
	fileA := domain.UploadedFile{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte{1}}
	fileB := domain.UploadedFile{Filename: "b.png", ContentType: "image/png", Data: []byte{2}}

	d.cars.On("GetByID", mock.Anything, int64(1)).Return(carWithPhotos(1), nil).Once()
	d.files.On("Store", mock.Anything, int64(1), fileA).Return("/uploads/cars/1/a.jpg", nil).Once()
	d.files.On("Store", mock.Anything, int64(1), fileB).Return("/uploads/cars/1/b.png", nil).Once()
	d.photos.On("Add", mock.Anything, int64(1), "/uploads/cars/1/a.jpg", false).Return(&domain.Photo{ID: 1}, nil).Once()
	d.photos.On("Add", mock.Anything, int64(1), "/uploads/cars/1/b.png", false).Return(nil, errors.New("insert failed")).Once()
	d.files.On("Delete", mock.Anything, int64(1), "/uploads/cars/1/a.jpg").Return(nil).Once()
	d.files.On("Delete", mock.Anything, int64(1), "/uploads/cars/1/b.png").Return(nil).Once()

	urls, err := NewUploadPhotosUseCase(d.cars, d.photos, d.files, d.tx).Execute(context.Background(), 1, []domain.UploadedFile{fileA, fileB})

	assert.ErrorContains(t, err, "insert failed")
	assert.Nil(t, urls)
	d.assertAll(t)
}

func TestReplacePhotosUseCase(t *testing.T) {
	t.Parallel()

	d := newPhotoDeps()
	car := carWithPhotos(1, "/uploads/cars/1/old.jpg")
	main := "/uploads/cars/1/old.jpg"
	car.MainPhotoURL = &main
	file := domain.UploadedFile{Filename: "new.jpg", ContentType: "image/jpeg", Data: []byte{1}}

	d.cars.On("GetByID", mock.Anything, int64(1)).Return(car, nil).Once()
	d.files.On("Store", mock.Anything, int64(1), file).Return("/uploads/cars/1/new.jpg", nil).Once()
	d.photos.On("DeleteByCar", mock.Anything, int64(1)).Return(nil).Once()
	d.photos.On("Add", mock.Anything, int64(1), "/uploads/cars/1/new.jpg", false).Return(&domain.Photo{ID: 2}, nil).Once()
	d.photos.On("SetMainPhotoURL", mock.Anything, int64(1), (*string)(nil)).Return(nil).Once()
	d.files.On("Delete", mock.Anything, int64(1), "/uploads/cars/1/old.jpg").Return(nil).Once()

	urls, err := NewReplacePhotosUseCase(d.cars, d.photos, d.files, d.tx).Execute(context.Background(), 1, []domain.UploadedFile{file})

	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/cars/1/new.jpg"}, urls)
	assert.Equal(t, 1, d.tx.calls)
	d.assertAll(t)
}
