package listingfetcher

import (
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
)

// listingDTO - объект, который печатает скрипт парсера
type listingDTO struct {
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         *int     `json:"year"`
	Price        *float64 `json:"price"`
	Mileage      *int     `json:"mileage"`
	Engine       string   `json:"engine"`
	HorsePower   *int     `json:"horsePower"`
	Color        string   `json:"color"`
	ImageURL     string   `json:"imageUrl"`
	City         string   `json:"city"`
	BodyType     string   `json:"bodyType"`
	Transmission string   `json:"transmission"`
	Drive        string   `json:"drive"`
	URL          string   `json:"url"`
}

// toDomain переводит нули парсера ("не найдено") в отсутствующие значения
func (d listingDTO) toDomain() domain.ParsedListing {
	return domain.ParsedListing{
		Make:         strings.TrimSpace(d.Make),
		Model:        strings.TrimSpace(d.Model),
		Year:         positiveInt(d.Year),
		Price:        positiveFloat(d.Price),
		Mileage:      nonNegativeInt(d.Mileage),
		Engine:       strings.TrimSpace(d.Engine),
		HorsePower:   positiveInt(d.HorsePower),
		Color:        strings.TrimSpace(d.Color),
		ImageURL:     strings.TrimSpace(d.ImageURL),
		City:         strings.TrimSpace(d.City),
		BodyType:     strings.TrimSpace(d.BodyType),
		Transmission: strings.TrimSpace(d.Transmission),
		Drive:        strings.TrimSpace(d.Drive),
		URL:          strings.TrimSpace(d.URL),
	}
}

func positiveInt(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func nonNegativeInt(v *int) *int {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

func positiveFloat(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}
