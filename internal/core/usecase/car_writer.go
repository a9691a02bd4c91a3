package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/assembler"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

// CarWriter - общий конвейер записи агрегата:
// проверка -> разрешение ссылок -> родитель -> зависимые записи, все в одной транзакции
type CarWriter struct {
	cars       port.CarStoragePort
	normalizer *ReferenceNormalizer
	validator  *CarValidator
	tx         port.TransactorPort
}

func NewCarWriter(cars port.CarStoragePort, normalizer *ReferenceNormalizer, validator *CarValidator, tx port.TransactorPort) *CarWriter {
	return &CarWriter{cars: cars, normalizer: normalizer, validator: validator, tx: tx}
}

// Create сохраняет новый агрегат. after, если задан, выполняется в той же транзакции.
func (w *CarWriter) Create(ctx context.Context, in domain.CarInput, after func(ctx context.Context, carID int64) error) (*domain.Car, error) {
	if err := w.validator.ValidateCreate(in); err != nil {
		return nil, err
	}

	var created *domain.Car
	err := w.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		refs, err := w.normalizer.ResolveRefs(ctx, in)
		if err != nil {
			return err
		}

		m := assembler.ApplyInput(nil, in, refs)
		id, err := w.cars.Create(ctx, m)
		if err != nil {
			return fmt.Errorf("create car: %w", err)
		}

		if after != nil {
			if err := after(ctx, id); err != nil {
				return err
			}
		}

		created, err = w.cars.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("reload car %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateResult - сохраненный агрегат и URL фотографий, которые больше ему не принадлежат
type UpdateResult struct {
	Car              *domain.Car
	RemovedPhotoURLs []string
}

// Update накладывает in на текущий агрегат
func (w *CarWriter) Update(ctx context.Context, id int64, in domain.CarInput) (*UpdateResult, error) {
	var result UpdateResult
	err := w.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := w.cars.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := w.validator.ValidateUpdate(*current, in); err != nil {
			return err
		}

		refs, err := w.normalizer.ResolveRefs(ctx, in)
		if err != nil {
			return err
		}

		m := assembler.ApplyInput(current, in, refs)
		if err := w.cars.Update(ctx, id, m); err != nil {
			return fmt.Errorf("update car %d: %w", id, err)
		}

		if m.PhotoURLs != nil {
			result.RemovedPhotoURLs = removedURLs(current.PhotoURLs(), m.PhotoURLs)
		}

		result.Car, err = w.cars.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("reload car %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func removedURLs(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}
	var removed []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			removed = append(removed, u)
		}
	}
	return removed
}

// cleanupFiles удаляет файлы автомобиля без прерывания операции, ошибки только логируются.
// Чужие URL (внешние или другого автомобиля) пропускаются, файл остается на месте.
func cleanupFiles(ctx context.Context, files port.FileStoragePort, logger port.LoggerPort, carID int64, urls []string) int {
	failed := 0
	for _, url := range urls {
		err := files.Delete(ctx, carID, url)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrForeignFile):
			logger.Debug("Photo url is not a file of this car, skipping", port.Fields{"url": url})
		default:
			failed++
			logger.Warn("Failed to remove photo file, continuing", port.Fields{"url": url, "error": err.Error()})
		}
	}
	return failed
}

func useCaseLogger(ctx context.Context, name string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": name})
}
