package domain

// CarFilter - критерии поиска. nil/пустое значение - отсутствие ограничения.
type CarFilter struct {
	Makes []string
	Model *string

	MinYear       *int
	MaxYear       *int
	MinPrice      *float64
	MaxPrice      *float64
	MaxMileage    *int
	MinHorsePower *int

	BodyTypeID *int64
	ColorID    *int64

	FuelType         *string
	TransmissionType *string
	DriveType        *string

	Country *string
	City    *string
}

const (
	DefaultPageSize = 10
	DefaultSortBy   = "id"
)

// PageRequest - страница в нумерации с нуля и сортировка по логическому имени поля
type PageRequest struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

// Normalize подставляет значения по умолчанию
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}
