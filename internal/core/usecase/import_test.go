package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestExtractTechnicalSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want domain.TechnicalSpecInput
	}{
		{
			in: "2.0 л / 150 л.с. / Бензин",
			want: domain.TechnicalSpecInput{
				EngineVolume: ptr(2.0), HorsePower: ptr(150), FuelType: ptr("Бензин"),
			},
		},
		{
			in:   "1,6 л, дизель, механика, передний",
			want: domain.TechnicalSpecInput{EngineVolume: ptr(1.6), FuelType: ptr("Дизель"), TransmissionType: ptr("Механика"), DriveType: ptr("Передний")},
		},
		{
			in:   "Электро, 300 лс, AWD",
			want: domain.TechnicalSpecInput{HorsePower: ptr(300), FuelType: ptr("Электро"), DriveType: ptr("Полный")},
		},
		{in: "", want: domain.TechnicalSpecInput{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTechnicalSpec(tt.in))
		})
	}
}

func TestListingToInput(t *testing.T) {
	t.Parallel()

	in := listingToInput(domain.ParsedListing{
		Make:         " Kia ",
		Model:        "Rio",
		Year:         ptr(2019),
		Price:        ptr(1100000.0),
		Mileage:      ptr(45000),
		Engine:       "1.6 л / 123 л.с. / Бензин",
		HorsePower:   ptr(125),
		Color:        "Белый",
		ImageURL:     "https://img.example/1.jpg",
		City:         "Москва",
		BodyType:     "Седан",
		Transmission: "АКПП",
		Drive:        "какой-то",
	})

	assert.Equal(t, "Kia", *in.Make)
	assert.Equal(t, "Москва", *in.Location)
	assert.Equal(t, "Белый", *in.ColorName)
	assert.Equal(t, "Седан", *in.BodyTypeName)
	assert.Equal(t, []string{"https://img.example/1.jpg"}, in.Photos)
	assert.Equal(t, "https://img.example/1.jpg", *in.MainPhotoURL)
	require.NotNil(t, in.TechnicalSpec)
	assert.Equal(t, 125, *in.TechnicalSpec.HorsePower)
	assert.Equal(t, 1.6, *in.TechnicalSpec.EngineVolume)
	assert.Equal(t, "Автомат", *in.TechnicalSpec.TransmissionType)
	assert.Equal(t, "какой-то", *in.TechnicalSpec.DriveType)
}

func TestImportListingsUseCase_CountsFailures(t *testing.T) {
	t.Parallel()

	cars := &mockCarStorage{}
	cars.On("Create", mock.Anything, mock.MatchedBy(func(m domain.CarMutation) bool { return m.Car.Make == "Lada" })).Return(int64(1), nil).Once()
	cars.On("Create", mock.Anything, mock.MatchedBy(func(m domain.CarMutation) bool { return m.Car.Make == "Volvo" })).Return(int64(0), errors.New("disk full")).Once()
	cars.On("GetByID", mock.Anything, int64(1)).Return(&domain.Car{ID: 1, Make: "Lada"}, nil).Once()

	writer := NewCarWriter(cars, NewReferenceNormalizer(&mockDictionaryRepo{}), NewCarValidator(fixedNow), &passthroughTx{})
	listings := []domain.ParsedListing{
		{Make: "Lada", Model: "Vesta", Year: ptr(2020), Price: ptr(900000.0), Mileage: ptr(10000)},
		{Make: "Lada", Model: "", Year: ptr(2020), Price: ptr(900000.0), Mileage: ptr(10000), URL: "https://auto/2"},
		{Make: "Volvo", Model: "XC60", Year: ptr(2018), Price: ptr(2500000.0), Mileage: ptr(80000)},
	}

	stats, err := NewImportListingsUseCase(writer).Execute(context.Background(), listings)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Received)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, []int64{1}, stats.CreatedIDs)
	require.Len(t, stats.Failures, 2)
	assert.Equal(t, 1, stats.Failures[0].Index)
	assert.Equal(t, "https://auto/2", stats.Failures[0].URL)
	assert.Contains(t, stats.Failures[1].Reason, "disk full")
	cars.AssertExpectations(t)
}

func TestProcessParsedCarsUseCase_ReportFailureIsNotReturned(t *testing.T) {
	t.Parallel()

	cars, reporter := &mockCarStorage{}, &mockReporter{}
	cars.On("Create", mock.Anything, mock.Anything).Return(int64(5), nil).Once()
	cars.On("GetByID", mock.Anything, int64(5)).Return(&domain.Car{ID: 5}, nil).Once()
	reporter.On("ReportImport", mock.Anything, mock.MatchedBy(func(r domain.ImportReport) bool {
		return r.TraceID == "trace-1" && r.SourceURL == "https://auto/list" && r.Stats.Created == 1
	})).Return(errors.New("broker unavailable")).Once()

	writer := NewCarWriter(cars, NewReferenceNormalizer(&mockDictionaryRepo{}), NewCarValidator(fixedNow), &passthroughTx{})
	uc := NewProcessParsedCarsUseCase(NewImportListingsUseCase(writer), reporter)
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")

	err := uc.Execute(ctx, "https://auto/list", []domain.ParsedListing{
		{Make: "Lada", Model: "Vesta", Year: ptr(2020), Price: ptr(900000.0), Mileage: ptr(1)},
	})

	require.NoError(t, err)
	cars.AssertExpectations(t)
	reporter.AssertExpectations(t)
}

func TestFetchListingsUseCase(t *testing.T) {
	t.Parallel()

	t.Run("relative url is rejected", func(t *testing.T) {
		fetcher := &mockFetcher{}

		_, err := NewFetchListingsUseCase(fetcher).Execute(context.Background(), "/cars", false)

		assert.ErrorIs(t, err, domain.ErrValidation)
		fetcher.AssertNotCalled(t, "FetchListings", mock.Anything, mock.Anything)
	})

	t.Run("details mode wraps a single listing", func(t *testing.T) {
		fetcher := &mockFetcher{}
		fetcher.On("FetchDetail", mock.Anything, "https://auto.ru/cars/1").Return(&domain.ParsedListing{Make: "BMW"}, nil).Once()

		listings, err := NewFetchListingsUseCase(fetcher).Execute(context.Background(), "https://auto.ru/cars/1", true)

		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, "BMW", listings[0].Make)
	})
}
