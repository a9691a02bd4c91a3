package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var dictionaryTables = map[domain.DictionaryKind]string{
	domain.KindBodyType:      "body_types",
	domain.KindColor:         "colors",
	domain.KindSafetyFeature: "safety_features",
	domain.KindEquipment:     "equipment",
}

// DictionaryRepository хранит справочники body_types, colors, safety_features, equipment.
// Уникальность имени обеспечивает UNIQUE(name).
type DictionaryRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

var _ port.DictionaryRepositoryPort = (*DictionaryRepository)(nil)

func NewDictionaryRepository(pool *pgxpool.Pool) (*DictionaryRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &DictionaryRepository{pool: pool, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}, nil
}

func table(kind domain.DictionaryKind) (string, error) {
	t, ok := dictionaryTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown dictionary kind %q", kind)
	}
	return t, nil
}

// columns зависят от вида справочника, порядок совпадает со scanItem
func columns(kind domain.DictionaryKind) []string {
	switch kind {
	case domain.KindColor:
		return []string{"id", "name", "hex_code"}
	case domain.KindEquipment:
		return []string{"id", "name", "category", "is_standard", "description"}
	default:
		return []string{"id", "name"}
	}
}

func scanItem(kind domain.DictionaryKind, row pgx.Row) (*domain.DictionaryItem, error) {
	var item domain.DictionaryItem
	var err error
	switch kind {
	case domain.KindColor:
		err = row.Scan(&item.ID, &item.Name, &item.HexCode)
	case domain.KindEquipment:
		err = row.Scan(&item.ID, &item.Name, &item.Category, &item.IsStandard, &item.Description)
	default:
		err = row.Scan(&item.ID, &item.Name)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *DictionaryRepository) findOne(ctx context.Context, kind domain.DictionaryKind, where sq.Eq, key interface{}) (*domain.DictionaryItem, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	sqlStr, args, err := r.sb.Select(columns(kind)...).From(t).Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	item, err := scanItem(kind, conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError(string(kind), key)
		}
		return nil, domain.NewStorageError("find "+string(kind), err)
	}
	return item, nil
}

func (r *DictionaryRepository) FindByName(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.DictionaryItem, error) {
	return r.findOne(ctx, kind, sq.Eq{"name": name}, name)
}

func (r *DictionaryRepository) GetByID(ctx context.Context, kind domain.DictionaryKind, id int64) (*domain.DictionaryItem, error) {
	return r.findOne(ctx, kind, sq.Eq{"id": id}, id)
}

func (r *DictionaryRepository) Create(ctx context.Context, kind domain.DictionaryKind, name string) (*domain.DictionaryItem, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	return r.insert(ctx, kind, r.sb.Insert(t).Columns("name").Values(name))
}

func (r *DictionaryRepository) CreateColor(ctx context.Context, name string, hex *string) (*domain.DictionaryItem, error) {
	return r.insert(ctx, domain.KindColor, r.sb.Insert("colors").Columns("name", "hex_code").Values(name, hex))
}

// insert выполняется в savepoint: нарушение уникальности откатывает только его
// и возвращается как ErrDictionaryConflict
func (r *DictionaryRepository) insert(ctx context.Context, kind domain.DictionaryKind, b sq.InsertBuilder) (*domain.DictionaryItem, error) {
	sqlStr, args, err := b.Suffix("RETURNING " + strings.Join(columns(kind), ", ")).ToSql()
	if err != nil {
		return nil, err
	}

	var item *domain.DictionaryItem
	err = withSavepoint(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		item, err = scanItem(kind, tx.QueryRow(ctx, sqlStr, args...))
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDictionaryConflict
		}
		repoLogger(ctx, "DictionaryRepository", "insert").Error("Failed to insert dictionary entry", err, port.Fields{"kind": string(kind)})
		return nil, domain.NewStorageError("create "+string(kind), err)
	}
	return item, nil
}

func (r *DictionaryRepository) UpdateColorHex(ctx context.Context, colorID int64, hex string) error {
	sqlStr, args, err := r.sb.Update("colors").Set("hex_code", hex).Where(sq.Eq{"id": colorID}).ToSql()
	if err != nil {
		return err
	}

	// ошибка не должна ломать ambient-транзакцию вызывающего
	err = withSavepoint(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.NewNotFoundError("color", colorID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return domain.NewStorageError("update color hex", err)
	}
	return nil
}

func (r *DictionaryRepository) List(ctx context.Context, kind domain.DictionaryKind) ([]domain.DictionaryItem, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	sqlStr, args, err := r.sb.Select(columns(kind)...).From(t).OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, domain.NewStorageError("list "+string(kind), err)
	}
	defer rows.Close()

	items := make([]domain.DictionaryItem, 0)
	for rows.Next() {
		item, err := scanItem(kind, rows)
		if err != nil {
			return nil, domain.NewStorageError("scan "+string(kind), err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list "+string(kind), err)
	}
	return items, nil
}

