package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

var storedDictionaries = map[string]domain.DictionaryKind{
	domain.DictBodyTypes:      domain.KindBodyType,
	domain.DictColors:         domain.KindColor,
	domain.DictSafetyFeatures: domain.KindSafetyFeature,
	domain.DictEquipment:      domain.KindEquipment,
}

var staticDictionaries = map[string][]domain.DictionaryItem{
	domain.DictFuelTypes:           domain.FuelTypes,
	domain.DictTransmissionTypes:   domain.TransmissionTypes,
	domain.DictDriveTypes:          domain.DriveTypes,
	domain.DictEquipmentCategories: domain.EquipmentCategories,
}

// KnownDictionary сообщает, существует ли справочник с таким именем
func KnownDictionary(name string) bool {
	_, stored := storedDictionaries[name]
	_, static := staticDictionaries[name]
	return stored || static
}

type GetDictionariesUseCase struct {
	repo port.DictionaryRepositoryPort
}

func NewGetDictionariesUseCase(repo port.DictionaryRepositoryPort) *GetDictionariesUseCase {
	return &GetDictionariesUseCase{repo: repo}
}

// Execute возвращает запрошенные справочники, пустой список имен - все.
// Неизвестные имена пропускаются.
func (uc *GetDictionariesUseCase) Execute(ctx context.Context, names []string) (map[string][]domain.DictionaryItem, error) {
	ucLogger := useCaseLogger(ctx, "GetDictionariesUseCase")
	ucLogger.Info("Use case started", port.Fields{"names": names})

	wanted := make(map[string]bool)
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = true
		}
	}
	all := len(wanted) == 0

	result := make(map[string][]domain.DictionaryItem)
	for name, kind := range storedDictionaries {
		if !all && !wanted[name] {
			continue
		}
		items, err := uc.repo.List(ctx, kind)
		if err != nil {
			ucLogger.Error("Storage returned an error while listing dictionary", err, port.Fields{"dictionary": name})
			return nil, fmt.Errorf("list %s: %w", name, err)
		}
		if items == nil {
			items = []domain.DictionaryItem{}
		}
		result[name] = items
	}
	for name, items := range staticDictionaries {
		if all || wanted[name] {
			result[name] = items
		}
	}

	for name := range wanted {
		if !KnownDictionary(name) {
			ucLogger.Warn("Unknown dictionary requested", port.Fields{"dictionary": name})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"dictionaries": len(result)})
	return result, nil
}
