package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

const minCarYear = 1900

// carDraft - итоговые значения записи, которые проверяются до сохранения
type carDraft struct {
	Make           *string    `json:"make" validate:"required,notblank"`
	Model          *string    `json:"model" validate:"required,notblank"`
	Year           *int       `json:"year" validate:"required,caryear"`
	Price          *float64   `json:"price" validate:"required,gt=0"`
	Mileage        *int       `json:"mileage" validate:"required,gte=0"`
	ColorHex       *string    `json:"colorHexCode" validate:"omitempty,hexcolor"`
	SafetyFeatures []string   `json:"safetyFeatures" validate:"dive,notblank"`
	Equipment      []string   `json:"equipment" validate:"dive,notblank"`
	TechnicalSpec  *specDraft `json:"technicalSpec"`
}

type specDraft struct {
	EngineVolume *float64 `json:"engineVolume" validate:"omitempty,gt=0"`
	HorsePower   *int     `json:"horsePower" validate:"omitempty,gt=0"`
	Gears        *int     `json:"gears" validate:"omitempty,gte=1"`
}

// CarValidator проверяет запись целиком и перечисляет все ошибочные поля
type CarValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewCarValidator(now func() time.Time) *CarValidator {
	if now == nil {
		now = time.Now
	}
	v := &CarValidator{validate: validator.New(), now: now}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.validate.RegisterValidation("caryear", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= minCarYear && year <= v.maxYear()
	})
	return v
}

func (v *CarValidator) maxYear() int {
	return v.now().Year() + 1
}

// ValidateCreate требует все обязательные поля
func (v *CarValidator) ValidateCreate(in domain.CarInput) error {
	return v.check(draftOf(in))
}

// ValidateUpdate проверяет значения, которые получатся после наложения in на current
func (v *CarValidator) ValidateUpdate(current domain.Car, in domain.CarInput) error {
	d := draftOf(in)
	if d.Make == nil {
		d.Make = &current.Make
	}
	if d.Model == nil {
		d.Model = &current.Model
	}
	if d.Year == nil {
		d.Year = &current.Year
	}
	if d.Price == nil {
		d.Price = &current.Price
	}
	if d.Mileage == nil {
		d.Mileage = &current.Mileage
	}
	return v.check(d)
}

func draftOf(in domain.CarInput) carDraft {
	d := carDraft{
		Make:           in.Make,
		Model:          in.Model,
		Year:           in.Year,
		Price:          in.Price,
		Mileage:        in.Mileage,
		ColorHex:       in.ColorHex,
		SafetyFeatures: in.SafetyFeatures,
		Equipment:      in.Equipment,
	}
	if d.ColorHex != nil && strings.TrimSpace(*d.ColorHex) == "" {
		d.ColorHex = nil
	}
	if in.TechnicalSpec != nil {
		d.TechnicalSpec = &specDraft{
			EngineVolume: in.TechnicalSpec.EngineVolume,
			HorsePower:   in.TechnicalSpec.HorsePower,
			Gears:        in.TechnicalSpec.Gears,
		}
	}
	return d
}

func (v *CarValidator) check(d carDraft) error {
	err := v.validate.Struct(d)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return fmt.Errorf("validate car: %w", err)
	}

	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		fields[fieldPath(fe)] = v.message(fe)
	}
	return domain.NewValidationError(fields)
}

// fieldPath убирает имя корневой структуры: "carDraft.technicalSpec.gears" -> "technicalSpec.gears"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func (v *CarValidator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "caryear":
		return fmt.Sprintf("must be between %d and %d", minCarYear, v.maxYear())
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "hexcolor":
		return "must be a hex color like #FFFFFF"
	default:
		return "is invalid"
	}
}
