package rabbitmq

import (
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/samber/lo"
)

// ParsedCarEventDTO - тело события ParsedCarEvent/1.0.0
type ParsedCarEventDTO struct {
	SourceURL string             `json:"sourceUrl"`
	Listings  []ParsedListingDTO `json:"listings"`
}

type ParsedListingDTO struct {
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         *int     `json:"year,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Mileage      *int     `json:"mileage,omitempty"`
	Engine       string   `json:"engine,omitempty"`
	HorsePower   *int     `json:"horsePower,omitempty"`
	Color        string   `json:"color,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	City         string   `json:"city,omitempty"`
	BodyType     string   `json:"bodyType,omitempty"`
	Transmission string   `json:"transmission,omitempty"`
	Drive        string   `json:"drive,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// ImportReportDTO - тело события ImportReportEvent/1.0.0
type ImportReportDTO struct {
	SourceURL  string             `json:"sourceUrl"`
	TraceID    string             `json:"traceId,omitempty"`
	Received   int                `json:"received"`
	Created    int                `json:"created"`
	Failed     int                `json:"failed"`
	CreatedIDs []int64            `json:"createdIds"`
	Failures   []ImportFailureDTO `json:"failures"`
}

type ImportFailureDTO struct {
	Index  int    `json:"index"`
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason"`
}

func toDomainListing(dto ParsedListingDTO) domain.ParsedListing {
	return domain.ParsedListing{
		Make:         strings.TrimSpace(dto.Make),
		Model:        strings.TrimSpace(dto.Model),
		Year:         dto.Year,
		Price:        dto.Price,
		Mileage:      dto.Mileage,
		Engine:       dto.Engine,
		HorsePower:   dto.HorsePower,
		Color:        dto.Color,
		ImageURL:     dto.ImageURL,
		City:         dto.City,
		BodyType:     dto.BodyType,
		Transmission: dto.Transmission,
		Drive:        dto.Drive,
		URL:          dto.URL,
	}
}

func toReportDTO(r domain.ImportReport) ImportReportDTO {
	createdIDs := r.Stats.CreatedIDs
	if createdIDs == nil {
		createdIDs = []int64{}
	}
	return ImportReportDTO{
		SourceURL:  r.SourceURL,
		TraceID:    r.TraceID,
		Received:   r.Stats.Received,
		Created:    r.Stats.Created,
		Failed:     r.Stats.Failed,
		CreatedIDs: createdIDs,
		Failures: lo.Map(r.Stats.Failures, func(f domain.ImportFailure, _ int) ImportFailureDTO {
			return ImportFailureDTO{Index: f.Index, URL: f.URL, Reason: f.Reason}
		}),
	}
}
