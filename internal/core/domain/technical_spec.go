package domain

import (
	"strconv"
	"strings"
)

// TechnicalSpec - технические характеристики, 1:1 с автомобилем.
// EngineInfo и TransmissionInfo вычисляются из остальных полей.
type TechnicalSpec struct {
	ID    int64
	CarID int64

	FuelType         *string
	EngineVolume     *float64
	HorsePower       *int
	DriveType        *string
	TransmissionType *string
	Gears            *int

	EngineInfo       string
	TransmissionInfo string
}

// TechnicalSpecInput - частичное обновление, nil поле не меняет текущее значение
type TechnicalSpecInput struct {
	FuelType         *string
	EngineVolume     *float64
	HorsePower       *int
	DriveType        *string
	TransmissionType *string
	Gears            *int
}

func (in TechnicalSpecInput) IsEmpty() bool {
	return in.FuelType == nil && in.EngineVolume == nil && in.HorsePower == nil &&
		in.DriveType == nil && in.TransmissionType == nil && in.Gears == nil
}

// MergeTechnicalSpec накладывает заданные поля input на existing (или на пустую
// спецификацию) и пересчитывает описания. Никогда не завершается ошибкой.
func MergeTechnicalSpec(existing *TechnicalSpec, in TechnicalSpecInput) TechnicalSpec {
	var spec TechnicalSpec
	if existing != nil {
		spec = existing.clone()
	}

	if in.FuelType != nil {
		spec.FuelType = copyPtr(in.FuelType)
	}
	if in.EngineVolume != nil {
		spec.EngineVolume = copyPtr(in.EngineVolume)
	}
	if in.HorsePower != nil {
		spec.HorsePower = copyPtr(in.HorsePower)
	}
	if in.DriveType != nil {
		spec.DriveType = copyPtr(in.DriveType)
	}
	if in.TransmissionType != nil {
		spec.TransmissionType = copyPtr(in.TransmissionType)
	}
	if in.Gears != nil {
		spec.Gears = copyPtr(in.Gears)
	}

	spec.EngineInfo, spec.TransmissionInfo = DeriveDescriptors(spec)
	return spec
}

// DeriveDescriptors строит "<топливо> <объем>L <мощность>HP" и тип трансмиссии.
// Незаданные и пустые составляющие пропускаются.
func DeriveDescriptors(spec TechnicalSpec) (engineInfo, transmissionInfo string) {
	parts := make([]string, 0, 3)
	if spec.FuelType != nil {
		if fuel := strings.TrimSpace(*spec.FuelType); fuel != "" {
			parts = append(parts, fuel)
		}
	}
	if spec.EngineVolume != nil {
		parts = append(parts, FormatEngineVolume(*spec.EngineVolume)+"L")
	}
	if spec.HorsePower != nil {
		parts = append(parts, strconv.Itoa(*spec.HorsePower)+"HP")
	}
	engineInfo = strings.Join(parts, " ")

	if spec.TransmissionType != nil {
		transmissionInfo = strings.TrimSpace(*spec.TransmissionType)
	}
	return engineInfo, transmissionInfo
}

// FormatEngineVolume печатает объем кратчайшей записью, но не меньше одного знака после точки: 2 -> "2.0"
func FormatEngineVolume(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (s TechnicalSpec) clone() TechnicalSpec {
	s.FuelType = copyPtr(s.FuelType)
	s.EngineVolume = copyPtr(s.EngineVolume)
	s.HorsePower = copyPtr(s.HorsePower)
	s.DriveType = copyPtr(s.DriveType)
	s.TransmissionType = copyPtr(s.TransmissionType)
	s.Gears = copyPtr(s.Gears)
	return s
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
