package rest

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type mockSearchCars struct{ mock.Mock }

func (m *mockSearchCars) Execute(ctx context.Context, filter domain.CarFilter, page domain.PageRequest) (*domain.PaginatedCarViews, error) {
	args := m.Called(ctx, filter, page)
	res, _ := args.Get(0).(*domain.PaginatedCarViews)
	return res, args.Error(1)
}

type mockGetCar struct{ mock.Mock }

func (m *mockGetCar) Execute(ctx context.Context, id int64) (*domain.CarView, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*domain.CarView)
	return res, args.Error(1)
}

type mockCreateCar struct{ mock.Mock }

func (m *mockCreateCar) Execute(ctx context.Context, in domain.CarInput) (*domain.CarView, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*domain.CarView)
	return res, args.Error(1)
}

type mockCreateCarWithPhotos struct{ mock.Mock }

func (m *mockCreateCarWithPhotos) Execute(ctx context.Context, in domain.CarInput, mainPhoto *domain.UploadedFile, photos []domain.UploadedFile) (*domain.CarView, error) {
	args := m.Called(ctx, in, mainPhoto, photos)
	res, _ := args.Get(0).(*domain.CarView)
	return res, args.Error(1)
}

type mockUpdateCar struct{ mock.Mock }

func (m *mockUpdateCar) Execute(ctx context.Context, id int64, in domain.CarInput) (*domain.CarView, error) {
	args := m.Called(ctx, id, in)
	res, _ := args.Get(0).(*domain.CarView)
	return res, args.Error(1)
}

type mockDeleteCar struct{ mock.Mock }

func (m *mockDeleteCar) Execute(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockPhotoWrite struct{ mock.Mock }

func (m *mockPhotoWrite) Execute(ctx context.Context, carID int64, files []domain.UploadedFile) ([]string, error) {
	args := m.Called(ctx, carID, files)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

type mockDeletePhoto struct{ mock.Mock }

func (m *mockDeletePhoto) Execute(ctx context.Context, carID, photoID int64) error {
	return m.Called(ctx, carID, photoID).Error(0)
}

type mockListMakes struct{ mock.Mock }

func (m *mockListMakes) Execute(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

type mockListModels struct{ mock.Mock }

func (m *mockListModels) Execute(ctx context.Context, makes []string) ([]string, error) {
	args := m.Called(ctx, makes)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

type mockYearRange struct{ mock.Mock }

func (m *mockYearRange) Execute(ctx context.Context) (domain.IntRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.IntRange), args.Error(1)
}

type mockPriceRange struct{ mock.Mock }

func (m *mockPriceRange) Execute(ctx context.Context) (domain.PriceRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PriceRange), args.Error(1)
}

type mockGetDictionaries struct{ mock.Mock }

func (m *mockGetDictionaries) Execute(ctx context.Context, names []string) (map[string][]domain.DictionaryItem, error) {
	args := m.Called(ctx, names)
	res, _ := args.Get(0).(map[string][]domain.DictionaryItem)
	return res, args.Error(1)
}

type mockFetchListings struct{ mock.Mock }

func (m *mockFetchListings) Execute(ctx context.Context, url string, details bool) ([]domain.ParsedListing, error) {
	args := m.Called(ctx, url, details)
	res, _ := args.Get(0).([]domain.ParsedListing)
	return res, args.Error(1)
}

type mockFetchAndImport struct{ mock.Mock }

func (m *mockFetchAndImport) Execute(ctx context.Context, url string, details bool) (*domain.ImportStats, error) {
	args := m.Called(ctx, url, details)
	res, _ := args.Get(0).(*domain.ImportStats)
	return res, args.Error(1)
}

// testDeps - все use case сервера
type testDeps struct {
	search           *mockSearchCars
	get              *mockGetCar
	create           *mockCreateCar
	createWithPhotos *mockCreateCarWithPhotos
	update           *mockUpdateCar
	deleteCar        *mockDeleteCar
	upload           *mockPhotoWrite
	replace          *mockPhotoWrite
	deletePhoto      *mockDeletePhoto
	makes            *mockListMakes
	models           *mockListModels
	years            *mockYearRange
	prices           *mockPriceRange
	dictionaries     *mockGetDictionaries
	fetch            *mockFetchListings
	fetchImport      *mockFetchAndImport
}

func newTestDeps() *testDeps {
	return &testDeps{
		search:           new(mockSearchCars),
		get:              new(mockGetCar),
		create:           new(mockCreateCar),
		createWithPhotos: new(mockCreateCarWithPhotos),
		update:           new(mockUpdateCar),
		deleteCar:        new(mockDeleteCar),
		upload:           new(mockPhotoWrite),
		replace:          new(mockPhotoWrite),
		deletePhoto:      new(mockDeletePhoto),
		makes:            new(mockListMakes),
		models:           new(mockListModels),
		years:            new(mockYearRange),
		prices:           new(mockPriceRange),
		dictionaries:     new(mockGetDictionaries),
		fetch:            new(mockFetchListings),
		fetchImport:      new(mockFetchAndImport),
	}
}

func (d *testDeps) assertExpectations(t mock.TestingT) {
	for _, m := range []interface{ AssertExpectations(mock.TestingT) bool }{
		d.search, d.get, d.create, d.createWithPhotos, d.update, d.deleteCar,
		d.upload, d.replace, d.deletePhoto, d.makes, d.models, d.years, d.prices,
		d.dictionaries, d.fetch, d.fetchImport,
	} {
		m.AssertExpectations(t)
	}
}
