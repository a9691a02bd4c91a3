package usecase

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type mockCarStorage struct{ mock.Mock }

func (m *mockCarStorage) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	args := m.Called(ctx, id)
	car, _ := args.Get(0).(*domain.Car)
	return car, args.Error(1)
}

func (m *mockCarStorage) Search(ctx context.Context, filter domain.CarFilter, page domain.PageRequest) (*domain.PaginatedCars, error) {
	args := m.Called(ctx, filter, page)
	res, _ := args.Get(0).(*domain.PaginatedCars)
	return res, args.Error(1)
}

func (m *mockCarStorage) Create(ctx context.Context, mut domain.CarMutation) (int64, error) {
	args := m.Called(ctx, mut)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCarStorage) Update(ctx context.Context, id int64, mut domain.CarMutation) error {
	return m.Called(ctx, id, mut).Error(0)
}

func (m *mockCarStorage) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockPhotoRepo struct{ mock.Mock }

func (m *mockPhotoRepo) ListByCar(ctx context.Context, carID int64) ([]domain.Photo, error) {
	args := m.Called(ctx, carID)
	photos, _ := args.Get(0).([]domain.Photo)
	return photos, args.Error(1)
}

func (m *mockPhotoRepo) GetByID(ctx context.Context, photoID int64) (*domain.Photo, error) {
	args := m.Called(ctx, photoID)
	photo, _ := args.Get(0).(*domain.Photo)
	return photo, args.Error(1)
}

func (m *mockPhotoRepo) Add(ctx context.Context, carID int64, url string, isMain bool) (*domain.Photo, error) {
	args := m.Called(ctx, carID, url, isMain)
	photo, _ := args.Get(0).(*domain.Photo)
	return photo, args.Error(1)
}

func (m *mockPhotoRepo) Delete(ctx context.Context, photoID int64) error {
	return m.Called(ctx, photoID).Error(0)
}

func (m *mockPhotoRepo) DeleteByCar(ctx context.Context, carID int64) error {
	return m.Called(ctx, carID).Error(0)
}

func (m *mockPhotoRepo) SetMainPhotoURL(ctx context.Context, carID int64, url *string) error {
	return m.Called(ctx, carID, url).Error(0)
}

type mockDictionaryRepo struct{ mock.Mock }

func (m *mockDictionaryRepo) FindByName(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.DictionaryItem, error) {
	args := m.Called(ctx, kind, name)
	item, _ := args.Get(0).(*domain.DictionaryItem)
	return item, args.Error(1)
}

func (m *mockDictionaryRepo) GetByID(ctx context.Context, kind domain.DictionaryKind, id int64) (*domain.DictionaryItem, error) {
	args := m.Called(ctx, kind, id)
	item, _ := args.Get(0).(*domain.DictionaryItem)
	return item, args.Error(1)
}

func (m *mockDictionaryRepo) Create(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.DictionaryItem, error) {
	args := m.Called(ctx, kind, name)
	item, _ := args.Get(0).(*domain.DictionaryItem)
	return item, args.Error(1)
}

func (m *mockDictionaryRepo) CreateColor(ctx context.Context, name string, hex *string) (*domain.DictionaryItem, error) {
	args := m.Called(ctx, name, hex)
	item, _ := args.Get(0).(*domain.DictionaryItem)
	return item, args.Error(1)
}

func (m *mockDictionaryRepo) UpdateColorHex(ctx context.Context, colorID int64, hex string) error {
	return m.Called(ctx, colorID, hex).Error(0)
}

func (m *mockDictionaryRepo) List(ctx context.Context, kind domain.DictionaryKind) ([]domain.DictionaryItem, error) {
	args := m.Called(ctx, kind)
	items, _ := args.Get(0).([]domain.DictionaryItem)
	return items, args.Error(1)
}

type mockStatisticsRepo struct{ mock.Mock }

func (m *mockStatisticsRepo) ListMakes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	makes, _ := args.Get(0).([]string)
	return makes, args.Error(1)
}

func (m *mockStatisticsRepo) ListModelsByMakes(ctx context.Context, makes []string) ([]string, error) {
	args := m.Called(ctx, makes)
	models, _ := args.Get(0).([]string)
	return models, args.Error(1)
}

func (m *mockStatisticsRepo) YearRange(ctx context.Context) (domain.IntRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.IntRange), args.Error(1)
}

func (m *mockStatisticsRepo) PriceRange(ctx context.Context) (domain.PriceRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PriceRange), args.Error(1)
}

type mockFileStorage struct{ mock.Mock }

func (m *mockFileStorage) Store(ctx context.Context, carID int64, file domain.UploadedFile) (string, error) {
	args := m.Called(ctx, carID, file)
	return args.String(0), args.Error(1)
}

func (m *mockFileStorage) Delete(ctx context.Context, carID int64, url string) error {
	return m.Called(ctx, carID, url).Error(0)
}

func (m *mockFileStorage) DeleteCarDirectory(ctx context.Context, carID int64) error {
	return m.Called(ctx, carID).Error(0)
}

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) FetchListings(ctx context.Context, url string) ([]domain.ParsedListing, error) {
	args := m.Called(ctx, url)
	listings, _ := args.Get(0).([]domain.ParsedListing)
	return listings, args.Error(1)
}

func (m *mockFetcher) FetchDetail(ctx context.Context, url string) (*domain.ParsedListing, error) {
	args := m.Called(ctx, url)
	listing, _ := args.Get(0).(*domain.ParsedListing)
	return listing, args.Error(1)
}

type mockReporter struct{ mock.Mock }

func (m *mockReporter) ReportImport(ctx context.Context, report domain.ImportReport) error {
	return m.Called(ctx, report).Error(0)
}

// passthroughTx выполняет fn без настоящей транзакции
type passthroughTx struct{ calls int }

func (tx *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}
