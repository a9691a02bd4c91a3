package domain

// DictionaryKind - вид справочника
type DictionaryKind string

const (
	KindBodyType      DictionaryKind = "body_type"
	KindColor         DictionaryKind = "color"
	KindSafetyFeature DictionaryKind = "safety_feature"
	KindEquipment     DictionaryKind = "equipment"
)

func (k DictionaryKind) Valid() bool {
	switch k {
	case KindBodyType, KindColor, KindSafetyFeature, KindEquipment:
		return true
	}
	return false
}

// DictionaryItem - элемент справочника. Идентичность - имя,
// HexCode есть только у цветов, Category/IsStandard - у комплектации.
type DictionaryItem struct {
	ID          int64
	Name        string
	Code        string // для статических справочников
	HexCode     *string
	Category    *string
	IsStandard  bool
	Description *string
}

// Имена справочников в ответе GetDictionaries
const (
	DictBodyTypes           = "body_types"
	DictColors              = "colors"
	DictSafetyFeatures      = "safety_features"
	DictEquipment           = "equipment"
	DictFuelTypes           = "fuel_types"
	DictTransmissionTypes   = "transmission_types"
	DictDriveTypes          = "drive_types"
	DictEquipmentCategories = "equipment_categories"
)

var (
	FuelTypes = []DictionaryItem{
		{Code: "PETROL", Name: "Бензин"},
		{Code: "DIESEL", Name: "Дизель"},
		{Code: "HYBRID", Name: "Гибрид"},
		{Code: "ELECTRIC", Name: "Электро"},
		{Code: "LPG", Name: "Газ"},
		{Code: "CNG", Name: "Метан"},
		{Code: "HYDROGEN", Name: "Водород"},
	}

	TransmissionTypes = []DictionaryItem{
		{Code: "MANUAL", Name: "Механика"},
		{Code: "AUTOMATIC", Name: "Автомат"},
		{Code: "ROBOT", Name: "Робот"},
		{Code: "CVT", Name: "Вариатор"},
		{Code: "SEMI_AUTO", Name: "Полуавтомат"},
	}

	DriveTypes = []DictionaryItem{
		{Code: "FWD", Name: "Передний"},
		{Code: "RWD", Name: "Задний"},
		{Code: "AWD", Name: "Полный"},
		{Code: "PART_TIME_4WD", Name: "Подключаемый полный"},
	}

	EquipmentCategories = []DictionaryItem{
		{Code: "COMFORT", Name: "Комфорт"},
		{Code: "MULTIMEDIA", Name: "Мультимедиа"},
		{Code: "EXTERIOR", Name: "Экстерьер"},
		{Code: "INTERIOR", Name: "Интерьер"},
		{Code: "SAFETY", Name: "Безопасность"},
		{Code: "PERFORMANCE", Name: "Динамика"},
	}
)
