package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

func validInput(year int) domain.CarInput {
	mk, model := "Toyota", "Camry"
	price, mileage := 15000.0, 120000
	return domain.CarInput{Make: &mk, Model: &model, Year: &year, Price: &price, Mileage: &mileage}
}

func TestCarValidator_YearBounds(t *testing.T) {
	t.Parallel()

	v := NewCarValidator(fixedNow)

	tests := []struct {
		year int
		ok   bool
	}{
		{1899, false},
		{1900, true},
		{2024, true},
		{2025, true},
		{2026, false},
	}
	for _, tt := range tests {
		err := v.ValidateCreate(validInput(tt.year))
		if tt.ok {
			assert.NoError(t, err, "year %d", tt.year)
			continue
		}
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr), "year %d", tt.year)
		assert.Contains(t, vErr.Fields, "year")
	}
}

func TestCarValidator_EnumeratesAllFields(t *testing.T) {
	t.Parallel()

	blank := "  "
	price, mileage, year := 0.0, -1, 1700
	volume, gears := -2.0, 0
	badHex := "red"
	in := domain.CarInput{
		Make:           &blank,
		Year:           &year,
		Price:          &price,
		Mileage:        &mileage,
		ColorHex:       &badHex,
		SafetyFeatures: []string{"ABS", ""},
		TechnicalSpec:  &domain.TechnicalSpecInput{EngineVolume: &volume, Gears: &gears},
	}

	err := NewCarValidator(fixedNow).ValidateCreate(in)

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.ErrorIs(t, err, domain.ErrValidation)
	for _, field := range []string{
		"make", "model", "year", "price", "mileage", "colorHexCode",
		"safetyFeatures[1]", "technicalSpec.engineVolume", "technicalSpec.gears",
	} {
		assert.Contains(t, vErr.Fields, field)
	}
	assert.NotContains(t, vErr.Fields, "technicalSpec.horsePower")
}

func TestCarValidator_ValidateUpdate(t *testing.T) {
	t.Parallel()

	v := NewCarValidator(fixedNow)
	current := domain.Car{ID: 1, Make: "Toyota", Model: "Camry", Year: 2010, Price: 9000, Mileage: 150000}

	t.Run("partial input inherits current values", func(t *testing.T) {
		price := 8500.0
		assert.NoError(t, v.ValidateUpdate(current, domain.CarInput{Price: &price}))
	})

	t.Run("bad new value is rejected", func(t *testing.T) {
		price := -1.0
		err := v.ValidateUpdate(current, domain.CarInput{Price: &price})

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, []string{"price"}, keys(vErr.Fields))
	})
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
