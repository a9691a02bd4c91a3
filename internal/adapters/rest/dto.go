package rest

import (
	"encoding/json"
	"time"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/samber/lo"
)

// TechnicalSpecDTO - технические характеристики в запросе и ответе.
// EngineInfo и TransmissionInfo в запросе игнорируются.
type TechnicalSpecDTO struct {
	FuelType         *string  `json:"fuelType,omitempty"`
	EngineVolume     *float64 `json:"engineVolume,omitempty"`
	HorsePower       *int     `json:"horsePower,omitempty"`
	DriveType        *string  `json:"driveType,omitempty"`
	TransmissionType *string  `json:"transmissionType,omitempty"`
	Gears            *int     `json:"gears,omitempty"`
	EngineInfo       string   `json:"engineInfo,omitempty"`
	TransmissionInfo string   `json:"transmissionInfo,omitempty"`
}

// CarRequest - тело создания и обновления. Отсутствующее поле не меняется,
// пустой список очищает связи.
type CarRequest struct {
	Make         *string  `json:"make"`
	Model        *string  `json:"model"`
	Year         *int     `json:"year"`
	Price        *float64 `json:"price"`
	Mileage      *int     `json:"mileage"`
	Condition    *string  `json:"carCondition"`
	Location     *string  `json:"location"`
	MainPhotoURL *string  `json:"mainPhotoUrl"`

	BodyTypeID *int64  `json:"bodyTypeId"`
	BodyType   *string `json:"bodyType"`
	ColorID    *int64  `json:"colorId"`
	Color      *string `json:"color"`
	ColorHex   *string `json:"colorHexCode"`

	TechnicalSpec *TechnicalSpecDTO `json:"technicalSpec"`

	Photos         listField `json:"photos"`
	SafetyFeatures listField `json:"safetyFeatures"`
	Equipment      listField `json:"equipment"`
}

// listField отличает отсутствующий ключ от явных [] и null.
// Отсутствие - связи не трогаются, [] и null - связи очищаются.
type listField struct {
	Values  []string
	Present bool
}

func (l *listField) UnmarshalJSON(data []byte) error {
	l.Present = true
	if string(data) == "null" {
		l.Values = nil
		return nil
	}
	return json.Unmarshal(data, &l.Values)
}

// list возвращает nil для отсутствующего ключа и непустой срез для явного значения
func (l listField) list() []string {
	if !l.Present {
		return nil
	}
	if l.Values == nil {
		return []string{}
	}
	return l.Values
}

type CarResponse struct {
	ID           int64    `json:"id"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Price        float64  `json:"price"`
	Mileage      int      `json:"mileage"`
	BodyType     *string  `json:"bodyType"`
	BodyTypeID   *int64   `json:"bodyTypeId"`
	Color        *string  `json:"color"`
	ColorID      *int64   `json:"colorId"`
	ColorHexCode *string  `json:"colorHexCode"`
	Condition    *string  `json:"carCondition"`
	Location     *string  `json:"location"`
	MainPhotoURL *string  `json:"mainPhotoUrl"`
	Photos       []string `json:"photos"`

	SafetyFeatures []string `json:"safetyFeatures"`
	Equipment      []string `json:"equipment"`

	TechnicalSpec    *TechnicalSpecDTO `json:"technicalSpec"`
	EngineInfo       string            `json:"engineInfo"`
	TransmissionInfo string            `json:"transmissionInfo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PaginatedCarsResponse struct {
	Items      []CarResponse `json:"items"`
	TotalCount int           `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
	Page       int           `json:"page"`
	Size       int           `json:"size"`
}

type DictionaryItemResponse struct {
	ID          int64   `json:"id,omitempty"`
	Code        string  `json:"code,omitempty"`
	Name        string  `json:"name"`
	HexCode     *string `json:"hexCode,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsStandard  *bool   `json:"isStandard,omitempty"`
	Description *string `json:"description,omitempty"`
}

type DictionariesResponse map[string][]DictionaryItemResponse

type YearRangeResponse struct {
	Min int `json:"minYear"`
	Max int `json:"maxYear"`
}

type PriceRangeResponse struct {
	Min float64 `json:"minPrice"`
	Max float64 `json:"maxPrice"`
}

type PhotoURLsResponse struct {
	Photos []string `json:"photos"`
}

type ParsedListingResponse struct {
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

type ImportRequest struct {
	URL     string `json:"url"`
	Details bool   `json:"details"`
}

type ImportFailureResponse struct {
	Index  int    `json:"index"`
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason"`
}

type ImportStatsResponse struct {
	Received   int                     `json:"received"`
	Created    int                     `json:"created"`
	Failed     int                     `json:"failed"`
	CreatedIDs []int64                 `json:"createdIds"`
	Failures   []ImportFailureResponse `json:"failures"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (r CarRequest) toInput() domain.CarInput {
	in := domain.CarInput{
		Make:           r.Make,
		Model:          r.Model,
		Year:           r.Year,
		Price:          r.Price,
		Mileage:        r.Mileage,
		Condition:      r.Condition,
		Location:       r.Location,
		MainPhotoURL:   r.MainPhotoURL,
		BodyTypeID:     r.BodyTypeID,
		BodyTypeName:   r.BodyType,
		ColorID:        r.ColorID,
		ColorName:      r.Color,
		ColorHex:       r.ColorHex,
		Photos:         r.Photos.list(),
		SafetyFeatures: r.SafetyFeatures.list(),
		Equipment:      r.Equipment.list(),
	}
	if r.TechnicalSpec != nil {
		in.TechnicalSpec = &domain.TechnicalSpecInput{
			FuelType:         r.TechnicalSpec.FuelType,
			EngineVolume:     r.TechnicalSpec.EngineVolume,
			HorsePower:       r.TechnicalSpec.HorsePower,
			DriveType:        r.TechnicalSpec.DriveType,
			TransmissionType: r.TechnicalSpec.TransmissionType,
			Gears:            r.TechnicalSpec.Gears,
		}
	}
	return in
}

func toCarResponse(v domain.CarView) CarResponse {
	resp := CarResponse{
		ID:               v.ID,
		Make:             v.Make,
		Model:            v.Model,
		Year:             v.Year,
		Price:            v.Price,
		Mileage:          v.Mileage,
		BodyType:         v.BodyType,
		BodyTypeID:       v.BodyTypeID,
		Color:            v.Color,
		ColorID:          v.ColorID,
		ColorHexCode:     v.ColorHexCode,
		Condition:        v.Condition,
		Location:         v.Location,
		MainPhotoURL:     v.MainPhotoURL,
		Photos:           nonNil(v.Photos),
		SafetyFeatures:   nonNil(v.SafetyFeatures),
		Equipment:        nonNil(v.Equipment),
		EngineInfo:       v.EngineInfo,
		TransmissionInfo: v.TransmissionInfo,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
	if s := v.TechnicalSpec; s != nil {
		resp.TechnicalSpec = &TechnicalSpecDTO{
			FuelType:         s.FuelType,
			EngineVolume:     s.EngineVolume,
			HorsePower:       s.HorsePower,
			DriveType:        s.DriveType,
			TransmissionType: s.TransmissionType,
			Gears:            s.Gears,
			EngineInfo:       s.EngineInfo,
			TransmissionInfo: s.TransmissionInfo,
		}
	}
	return resp
}

func toPaginatedResponse(p *domain.PaginatedCarViews) PaginatedCarsResponse {
	totalPages := 0
	if p.Size > 0 {
		totalPages = (p.TotalCount + p.Size - 1) / p.Size
	}
	return PaginatedCarsResponse{
		Items:      lo.Map(p.Items, func(v domain.CarView, _ int) CarResponse { return toCarResponse(v) }),
		TotalCount: p.TotalCount,
		TotalPages: totalPages,
		Page:       p.Page,
		Size:       p.Size,
	}
}

func toDictionaryItemResponse(item domain.DictionaryItem) DictionaryItemResponse {
	resp := DictionaryItemResponse{
		ID:          item.ID,
		Code:        item.Code,
		Name:        item.Name,
		HexCode:     item.HexCode,
		Category:    item.Category,
		Description: item.Description,
	}
	// признак комплектации имеет смысл только вместе с категорией
	if item.Category != nil {
		resp.IsStandard = lo.ToPtr(item.IsStandard)
	}
	return resp
}

func toListingResponse(l domain.ParsedListing) ParsedListingResponse {
	return ParsedListingResponse{
		Make:         l.Make,
		Model:        l.Model,
		Year:         l.Year,
		Price:        l.Price,
		Mileage:      l.Mileage,
		Engine:       l.Engine,
		HorsePower:   l.HorsePower,
		Color:        l.Color,
		ImageURL:     l.ImageURL,
		City:         l.City,
		BodyType:     l.BodyType,
		Transmission: l.Transmission,
		Drive:        l.Drive,
		URL:          l.URL,
	}
}

func toImportStatsResponse(s *domain.ImportStats) ImportStatsResponse {
	return ImportStatsResponse{
		Received:   s.Received,
		Created:    s.Created,
		Failed:     s.Failed,
		CreatedIDs: nonNil(s.CreatedIDs),
		Failures: lo.Map(s.Failures, func(f domain.ImportFailure, _ int) ImportFailureResponse {
			return ImportFailureResponse{Index: f.Index, URL: f.URL, Reason: f.Reason}
		}),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
