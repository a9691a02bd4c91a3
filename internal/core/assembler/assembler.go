// Package assembler переводит агрегат автомобиля в плоское представление и обратно.
package assembler

import (
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/samber/lo"
)

// NotSpecified подставляется в engineInfo/transmissionInfo верхнего уровня,
// когда описание отсутствует
const NotSpecified = "Не указано"

// ToTransfer строит плоское представление. Частично загруженные связи допустимы.
func ToTransfer(car domain.Car) domain.CarView {
	view := domain.CarView{
		ID:           car.ID,
		Make:         car.Make,
		Model:        car.Model,
		Year:         car.Year,
		Price:        car.Price,
		Mileage:      car.Mileage,
		Condition:    cloneString(car.Condition),
		Location:     cloneString(car.Location),
		BodyTypeID:   cloneID(car.BodyTypeID),
		ColorID:      cloneID(car.ColorID),
		Photos:       car.PhotoURLs(),
		MainPhotoURL: car.EffectiveMainPhoto(),
		CreatedAt:    car.CreatedAt,
		UpdatedAt:    car.UpdatedAt,

		SafetyFeatures:   names(car.SafetyFeatures),
		Equipment:        names(car.Equipment),
		EngineInfo:       NotSpecified,
		TransmissionInfo: NotSpecified,
	}

	if car.BodyType != nil {
		view.BodyType = lo.ToPtr(car.BodyType.Name)
		if view.BodyTypeID == nil {
			view.BodyTypeID = lo.ToPtr(car.BodyType.ID)
		}
	}
	if car.Color != nil {
		view.Color = lo.ToPtr(car.Color.Name)
		view.ColorHexCode = cloneString(car.Color.HexCode)
		if view.ColorID == nil {
			view.ColorID = lo.ToPtr(car.Color.ID)
		}
	}

	if car.TechnicalSpec != nil {
		spec := domain.MergeTechnicalSpec(car.TechnicalSpec, domain.TechnicalSpecInput{})
		// сохраненные описания показываются как есть
		spec.EngineInfo = car.TechnicalSpec.EngineInfo
		spec.TransmissionInfo = car.TechnicalSpec.TransmissionInfo
		view.TechnicalSpec = &spec

		if spec.EngineInfo != "" {
			view.EngineInfo = spec.EngineInfo
		}
		if spec.TransmissionInfo != "" {
			view.TransmissionInfo = spec.TransmissionInfo
		}
	}

	return view
}

// ToInput - обратная проекция: плоское представление как полный набор входных данных
func ToInput(view domain.CarView) domain.CarInput {
	in := domain.CarInput{
		Make:         lo.ToPtr(view.Make),
		Model:        lo.ToPtr(view.Model),
		Year:         lo.ToPtr(view.Year),
		Price:        lo.ToPtr(view.Price),
		Mileage:      lo.ToPtr(view.Mileage),
		Condition:    cloneString(view.Condition),
		Location:     cloneString(view.Location),
		MainPhotoURL: cloneString(view.MainPhotoURL),
		BodyTypeID:   cloneID(view.BodyTypeID),
		BodyTypeName: cloneString(view.BodyType),
		ColorID:      cloneID(view.ColorID),
		ColorName:    cloneString(view.Color),
		ColorHex:     cloneString(view.ColorHexCode),

		Photos:         cloneList(view.Photos),
		SafetyFeatures: cloneList(view.SafetyFeatures),
		Equipment:      cloneList(view.Equipment),
	}

	if view.TechnicalSpec != nil {
		s := view.TechnicalSpec
		in.TechnicalSpec = &domain.TechnicalSpecInput{
			FuelType:         cloneString(s.FuelType),
			EngineVolume:     clonePtr(s.EngineVolume),
			HorsePower:       clonePtr(s.HorsePower),
			DriveType:        cloneString(s.DriveType),
			TransmissionType: cloneString(s.TransmissionType),
			Gears:            clonePtr(s.Gears),
		}
	}
	return in
}

// FromTransfer собирает мутацию нового агрегата из плоского представления
// и уже разрешенных справочных ссылок
func FromTransfer(view domain.CarView, refs domain.ResolvedRefs) domain.CarMutation {
	m := ApplyInput(nil, ToInput(view), refs)
	m.Car.ID = view.ID
	return m
}

// ApplyInput накладывает входные данные на текущий агрегат (nil - создание).
// Отсутствующий скаляр сохраняет значение, пустая строка у необязательного
// поля его очищает. Списки: nil - не трогать, пустой - очистить.
func ApplyInput(current *domain.Car, in domain.CarInput, refs domain.ResolvedRefs) domain.CarMutation {
	var car domain.Car
	if current != nil {
		car = *current
	}

	if in.Make != nil {
		car.Make = strings.TrimSpace(*in.Make)
	}
	if in.Model != nil {
		car.Model = strings.TrimSpace(*in.Model)
	}
	if in.Year != nil {
		car.Year = *in.Year
	}
	if in.Price != nil {
		car.Price = *in.Price
	}
	if in.Mileage != nil {
		car.Mileage = *in.Mileage
	}
	if in.Condition != nil {
		car.Condition = optionalString(*in.Condition)
	}
	if in.Location != nil {
		car.Location = optionalString(*in.Location)
	}
	if in.MainPhotoURL != nil {
		car.MainPhotoURL = optionalString(*in.MainPhotoURL)
	}

	switch {
	case refs.BodyType != nil:
		car.BodyType = refs.BodyType
		car.BodyTypeID = lo.ToPtr(refs.BodyType.ID)
	case clearsReference(in.BodyTypeName, in.BodyTypeID):
		car.BodyType, car.BodyTypeID = nil, nil
	}

	switch {
	case refs.Color != nil:
		car.Color = refs.Color
		car.ColorID = lo.ToPtr(refs.Color.ID)
	case clearsReference(in.ColorName, in.ColorID):
		car.Color, car.ColorID = nil, nil
	}

	m := domain.CarMutation{}

	if in.TechnicalSpec != nil {
		merged := domain.MergeTechnicalSpec(car.TechnicalSpec, *in.TechnicalSpec)
		if current != nil {
			merged.CarID = current.ID
		}
		car.TechnicalSpec = &merged
		m.Spec = &merged
	}

	if in.SafetyFeatures != nil {
		car.SafetyFeatures = nonNil(refs.SafetyFeatures)
		m.SafetyFeatureIDs = ids(car.SafetyFeatures)
	}
	if in.Equipment != nil {
		car.Equipment = nonNil(refs.Equipment)
		m.EquipmentIDs = ids(car.Equipment)
	}

	if in.Photos != nil {
		urls := lo.Uniq(lo.Filter(in.Photos, func(u string, _ int) bool { return strings.TrimSpace(u) != "" }))
		if current != nil && in.MainPhotoURL == nil && current.MainPhotoRemoved(urls) {
			car.MainPhotoURL = nil
		}
		car.Photos = lo.Map(urls, func(u string, _ int) domain.Photo {
			return domain.Photo{CarID: car.ID, URL: u, IsMain: car.MainPhotoURL != nil && *car.MainPhotoURL == u}
		})
		m.PhotoURLs = urls
	}

	m.Car = car
	return m
}

// clearsReference - явная пустая ссылка на справочник без id
func clearsReference(name *string, id *int64) bool {
	return id == nil && name != nil && strings.TrimSpace(*name) == ""
}

func names(items []domain.DictionaryItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name != "" {
			out = append(out, item.Name)
		}
	}
	return out
}

func ids(items []domain.DictionaryItem) []int64 {
	return lo.Uniq(lo.Map(items, func(item domain.DictionaryItem, _ int) int64 { return item.ID }))
}

func nonNil(items []domain.DictionaryItem) []domain.DictionaryItem {
	if items == nil {
		return []domain.DictionaryItem{}
	}
	return items
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cloneList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneString(p *string) *string { return clonePtr(p) }

func cloneID(p *int64) *int64 { return clonePtr(p) }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
