package port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

type DictionaryRepositoryPort interface {
	// FindByName - точное, регистрозависимое совпадение, domain.ErrNotFound при отсутствии
	FindByName(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.DictionaryItem, error)
	GetByID(ctx context.Context, kind domain.DictionaryKind, id int64) (*domain.DictionaryItem, error)
	// Create возвращает domain.ErrDictionaryConflict, если имя уже занято
	Create(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.DictionaryItem, error)
	CreateColor(ctx context.Context, name string, hex *string) (*domain.DictionaryItem, error)
	UpdateColorHex(ctx context.Context, colorID int64, hex string) error
	List(ctx context.Context, kind domain.DictionaryKind) ([]domain.DictionaryItem, error)
}
