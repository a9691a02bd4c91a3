package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
)

var (
	engineVolumeRe = regexp.MustCompile(`(\d+[.,]\d+)\s*л`)
	horsePowerRe   = regexp.MustCompile(`(\d+)\s*л\.?\s*с\.?`)
)

type keywordClass struct {
	keywords []string
	value    string
}

var (
	fuelClasses = []keywordClass{
		{[]string{"бензин", "petrol", "gasoline"}, "Бензин"},
		{[]string{"дизель", "diesel"}, "Дизель"},
		{[]string{"гибрид", "hybrid"}, "Гибрид"},
		{[]string{"электро", "electric"}, "Электро"},
	}
	transmissionClasses = []keywordClass{
		{[]string{"механика", "мкпп", "manual"}, "Механика"},
		{[]string{"автомат", "акпп", "automatic"}, "Автомат"},
		{[]string{"робот", "robot"}, "Робот"},
		{[]string{"вариатор", "cvt"}, "Вариатор"},
	}
	driveClasses = []keywordClass{
		{[]string{"передний", "fwd"}, "Передний"},
		{[]string{"задний", "rwd"}, "Задний"},
		{[]string{"полный", "4wd", "awd"}, "Полный"},
	}
)

// classify возвращает значение первого класса, чье ключевое слово встречается в тексте
func classify(text string, classes []keywordClass) (string, bool) {
	text = strings.ToLower(text)
	if text == "" {
		return "", false
	}
	for _, c := range classes {
		for _, kw := range c.keywords {
			if strings.Contains(text, kw) {
				return c.value, true
			}
		}
	}
	return "", false
}

// ExtractTechnicalSpec разбирает строку вида "2.0 л / 150 л.с. / Бензин".
// Нераспознанные части остаются nil.
func ExtractTechnicalSpec(description string) domain.TechnicalSpecInput {
	var spec domain.TechnicalSpecInput

	if m := engineVolumeRe.FindStringSubmatch(description); m != nil {
		if v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil && v > 0 {
			spec.EngineVolume = &v
		}
	}
	if m := horsePowerRe.FindStringSubmatch(description); m != nil {
		if hp, err := strconv.Atoi(m[1]); err == nil && hp > 0 {
			spec.HorsePower = &hp
		}
	}
	if fuel, ok := classify(description, fuelClasses); ok {
		spec.FuelType = &fuel
	}
	if tr, ok := classify(description, transmissionClasses); ok {
		spec.TransmissionType = &tr
	}
	if drive, ok := classify(description, driveClasses); ok {
		spec.DriveType = &drive
	}
	return spec
}

// listingToInput переводит объявление парсера в обычные входные данные записи
func listingToInput(l domain.ParsedListing) domain.CarInput {
	in := domain.CarInput{
		Make:     optionalString(l.Make),
		Model:    optionalString(l.Model),
		Year:     l.Year,
		Price:    l.Price,
		Mileage:  l.Mileage,
		Location: optionalString(l.City),
	}

	spec := ExtractTechnicalSpec(l.Engine)
	if l.HorsePower != nil && *l.HorsePower > 0 {
		hp := *l.HorsePower
		spec.HorsePower = &hp
	}
	if tr := strings.TrimSpace(l.Transmission); tr != "" {
		if v, ok := classify(tr, transmissionClasses); ok {
			spec.TransmissionType = &v
		} else {
			spec.TransmissionType = &tr
		}
	}
	if drive := strings.TrimSpace(l.Drive); drive != "" {
		if v, ok := classify(drive, driveClasses); ok {
			spec.DriveType = &v
		} else {
			spec.DriveType = &drive
		}
	}
	if !spec.IsEmpty() {
		in.TechnicalSpec = &spec
	}

	in.ColorName = optionalString(l.Color)
	in.BodyTypeName = optionalString(l.BodyType)

	if img := optionalString(l.ImageURL); img != nil {
		in.Photos = []string{*img}
		in.MainPhotoURL = img
	}
	return in
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
