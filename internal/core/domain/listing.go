package domain

// ParsedListing - объявление в том виде, в каком его отдает внешний парсер
type ParsedListing struct {
	Make         string
	Model        string
	Year         *int
	Price        *float64
	Mileage      *int
	Engine       string
	HorsePower   *int
	Color        string
	ImageURL     string
	City         string
	BodyType     string
	Transmission string
	Drive        string
	URL          string
}

// ImportFailure - объявление, которое не удалось сохранить
type ImportFailure struct {
	Index  int
	URL    string
	Reason string
}

// ImportStats - итог импорта пачки объявлений
type ImportStats struct {
	Received   int
	Created    int
	Failed     int
	CreatedIDs []int64
	Failures   []ImportFailure
}

// ImportReport отправляется в очередь уведомлений после обработки события
type ImportReport struct {
	SourceURL string
	TraceID   string
	Stats     ImportStats
}
