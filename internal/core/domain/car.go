package domain

import "time"

// Car - агрегат автомобиля. Справочники хранятся ссылками по id,
// BodyType/Color/SafetyFeatures/Equipment заполняются при чтении.
type Car struct {
	ID      int64
	Make    string
	Model   string
	Year    int
	Price   float64
	Mileage int

	Condition    *string
	Location     *string
	MainPhotoURL *string

	BodyTypeID *int64
	ColorID    *int64

	BodyType       *DictionaryItem
	Color          *DictionaryItem
	TechnicalSpec  *TechnicalSpec
	Photos         []Photo
	SafetyFeatures []DictionaryItem
	Equipment      []DictionaryItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PhotoURLs возвращает непустые URL фотографий в порядке добавления
func (c *Car) PhotoURLs() []string {
	urls := make([]string, 0, len(c.Photos))
	for _, p := range c.Photos {
		if p.URL != "" {
			urls = append(urls, p.URL)
		}
	}
	return urls
}

// EffectiveMainPhoto - явное главное фото или первое из списка
func (c *Car) EffectiveMainPhoto() *string {
	if c.MainPhotoURL != nil && *c.MainPhotoURL != "" {
		url := *c.MainPhotoURL
		return &url
	}
	if urls := c.PhotoURLs(); len(urls) > 0 {
		return &urls[0]
	}
	return nil
}

// MainPhotoRemoved сообщает, что явное главное фото было одной из фотографий
// автомобиля и отсутствует в новом наборе
func (c *Car) MainPhotoRemoved(remaining []string) bool {
	if c.MainPhotoURL == nil {
		return false
	}
	main := *c.MainPhotoURL
	owned := false
	for _, p := range c.Photos {
		if p.URL == main {
			owned = true
			break
		}
	}
	if !owned {
		return false
	}
	for _, url := range remaining {
		if url == main {
			return false
		}
	}
	return true
}

type Photo struct {
	ID        int64
	CarID     int64
	URL       string
	IsMain    bool
	CreatedAt time.Time
}

// CarInput - входные данные записи. nil у скаляра означает "оставить как есть",
// nil у списка - "не трогать", пустой список - "очистить связи".
type CarInput struct {
	Make    *string
	Model   *string
	Year    *int
	Price   *float64
	Mileage *int

	Condition    *string
	Location     *string
	MainPhotoURL *string

	BodyTypeID   *int64
	BodyTypeName *string
	ColorID      *int64
	ColorName    *string
	ColorHex     *string

	TechnicalSpec *TechnicalSpecInput

	Photos         []string
	SafetyFeatures []string
	Equipment      []string
}

// ResolvedRefs - справочные значения, найденные или созданные нормализатором
type ResolvedRefs struct {
	BodyType       *DictionaryItem
	Color          *DictionaryItem
	SafetyFeatures []DictionaryItem
	Equipment      []DictionaryItem
}

// CarMutation - то, что хранилище записывает за одну операцию над агрегатом
type CarMutation struct {
	Car  Car
	Spec *TechnicalSpec

	// nil - связи/фото не меняются, иначе заменяются целиком
	SafetyFeatureIDs []int64
	EquipmentIDs     []int64
	PhotoURLs        []string
}

// CarView - плоское представление автомобиля для внешних слоев
type CarView struct {
	ID      int64
	Make    string
	Model   string
	Year    int
	Price   float64
	Mileage int

	BodyType     *string
	BodyTypeID   *int64
	Color        *string
	ColorID      *int64
	ColorHexCode *string

	Condition    *string
	Location     *string
	MainPhotoURL *string
	Photos       []string

	SafetyFeatures []string
	Equipment      []string

	TechnicalSpec    *TechnicalSpec
	EngineInfo       string
	TransmissionInfo string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaginatedCars struct {
	Items      []Car
	TotalCount int
	Page       int
	Size       int
}

type PaginatedCarViews struct {
	Items      []CarView
	TotalCount int
	Page       int
	Size       int
}

// UploadedFile - файл фотографии, пришедший от клиента
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
