package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

const defaultResolveAttempts = 3

// ReferenceNormalizer сводит свободный текст к записям справочников по
// принципу find-or-create. Гонку двух создателей разрешает уникальный индекс БД.
type ReferenceNormalizer struct {
	repo        port.DictionaryRepositoryPort
	maxAttempts int
}

func NewReferenceNormalizer(repo port.DictionaryRepositoryPort) *ReferenceNormalizer {
	return &ReferenceNormalizer{repo: repo, maxAttempts: defaultResolveAttempts}
}

// ResolveByName ищет точное совпадение имени
func (n *ReferenceNormalizer) ResolveByName(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.DictionaryItem, error) {
	name, err := normalizeName(kind, name)
	if err != nil {
		return nil, err
	}
	return n.repo.FindByName(ctx, kind, name)
}

// ResolveOrCreate возвращает существующую запись или создает новую.
// Проигранная гонка при вставке повторяется как поиск.
func (n *ReferenceNormalizer) ResolveOrCreate(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.DictionaryItem, error) {
	return n.resolveOrCreate(ctx, kind, name, func(name string) (*domain.DictionaryItem, error) {
		return n.repo.Create(ctx, kind, name)
	})
}

// ResolveOrCreateColor создает цвет сразу с hex, у существующего цвета hex дописывается
func (n *ReferenceNormalizer) ResolveOrCreateColor(ctx context.Context, name string, hex *string) (*domain.DictionaryItem, error) {
	hexValue := ""
	if hex != nil {
		hexValue = strings.TrimSpace(*hex)
	}

	color, err := n.resolveOrCreate(ctx, domain.KindColor, name, func(name string) (*domain.DictionaryItem, error) {
		if hexValue == "" {
			return n.repo.CreateColor(ctx, name, nil)
		}
		return n.repo.CreateColor(ctx, name, &hexValue)
	})
	if err != nil {
		return nil, err
	}

	n.UpdateHexIfProvided(ctx, color, hexValue)
	return color, nil
}

// UpdateHexIfProvided перезаписывает hex, только если он задан и отличается от сохраненного.
// Ошибка записи не передается вызывающему: последний писатель побеждает.
func (n *ReferenceNormalizer) UpdateHexIfProvided(ctx context.Context, color *domain.DictionaryItem, hex string) {
	hex = strings.TrimSpace(hex)
	if color == nil || hex == "" {
		return
	}
	if color.HexCode != nil && *color.HexCode == hex {
		return
	}

	if err := n.repo.UpdateColorHex(ctx, color.ID, hex); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Color hex update lost, keeping stored value", port.Fields{
			"color_id": color.ID, "hex": hex, "error": err.Error(),
		})
		return
	}
	color.HexCode = &hex
}

func (n *ReferenceNormalizer) resolveOrCreate(ctx context.Context, kind domain.DictionaryKind, name string, create func(string) (*domain.DictionaryItem, error)) (*domain.DictionaryItem, error) {
	name, err := normalizeName(kind, name)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		item, err := n.repo.FindByName(ctx, kind, name)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("lookup %s %q: %w", kind, name, err)
		}

		item, err = create(name)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, domain.ErrDictionaryConflict) {
			return nil, fmt.Errorf("create %s %q: %w", kind, name, err)
		}

		contextkeys.LoggerFromContext(ctx).Debug("Dictionary insert lost a race, retrying lookup", port.Fields{
			"kind": string(kind), "name": name, "attempt": attempt,
		})
	}

	return nil, domain.NewStorageError("resolve "+string(kind), fmt.Errorf("%q still unresolved after %d attempts", name, n.maxAttempts))
}

// ResolveRefs разрешает все справочные ссылки входных данных.
// Неизвестный id справочника - ошибка валидации.
func (n *ReferenceNormalizer) ResolveRefs(ctx context.Context, in domain.CarInput) (domain.ResolvedRefs, error) {
	var refs domain.ResolvedRefs
	problems := make(map[string]string)

	switch {
	case in.BodyTypeID != nil:
		item, err := n.repo.GetByID(ctx, domain.KindBodyType, *in.BodyTypeID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return refs, err
			}
			problems["bodyTypeId"] = "unknown body type"
		}
		refs.BodyType = item
	case in.BodyTypeName != nil && strings.TrimSpace(*in.BodyTypeName) != "":
		item, err := n.ResolveOrCreate(ctx, domain.KindBodyType, *in.BodyTypeName)
		if err != nil {
			return refs, err
		}
		refs.BodyType = item
	}

	switch {
	case in.ColorID != nil:
		item, err := n.repo.GetByID(ctx, domain.KindColor, *in.ColorID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return refs, err
			}
			problems["colorId"] = "unknown color"
		}
		if item != nil && in.ColorHex != nil {
			n.UpdateHexIfProvided(ctx, item, *in.ColorHex)
		}
		refs.Color = item
	case in.ColorName != nil && strings.TrimSpace(*in.ColorName) != "":
		item, err := n.ResolveOrCreateColor(ctx, *in.ColorName, in.ColorHex)
		if err != nil {
			return refs, err
		}
		refs.Color = item
	}

	if len(problems) > 0 {
		return refs, domain.NewValidationError(problems)
	}

	var err error
	if in.SafetyFeatures != nil {
		if refs.SafetyFeatures, err = n.resolveAll(ctx, domain.KindSafetyFeature, in.SafetyFeatures); err != nil {
			return refs, err
		}
	}
	if in.Equipment != nil {
		if refs.Equipment, err = n.resolveAll(ctx, domain.KindEquipment, in.Equipment); err != nil {
			return refs, err
		}
	}
	return refs, nil
}

// resolveAll сохраняет порядок первого появления и выкидывает дубликаты
func (n *ReferenceNormalizer) resolveAll(ctx context.Context, kind domain.DictionaryKind, names []string) ([]domain.DictionaryItem, error) {
	items := make([]domain.DictionaryItem, 0, len(names))
	seen := make(map[int64]struct{}, len(names))
	for _, name := range names {
		item, err := n.ResolveOrCreate(ctx, kind, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, *item)
	}
	return items, nil
}

func normalizeName(kind domain.DictionaryKind, name string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown dictionary kind %q", kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError(map[string]string{string(kind): "name must not be empty"})
	}
	return name, nil
}
