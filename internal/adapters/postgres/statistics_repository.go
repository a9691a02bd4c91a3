package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatisticsRepository считает агрегаты по всему каталогу.
// Пустая таблица дает {0,0} за счет COALESCE.
type StatisticsRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

var _ port.StatisticsRepositoryPort = (*StatisticsRepository)(nil)

func NewStatisticsRepository(pool *pgxpool.Pool) (*StatisticsRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &StatisticsRepository{pool: pool, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}, nil
}

func (r *StatisticsRepository) ListMakes(ctx context.Context) ([]string, error) {
	return r.column(ctx, "ListMakes", r.sb.Select("DISTINCT make").From("cars").OrderBy("make"))
}

func (r *StatisticsRepository) ListModelsByMakes(ctx context.Context, makes []string) ([]string, error) {
	if len(makes) == 0 {
		return []string{}, nil
	}
	return r.column(ctx, "ListModelsByMakes", r.sb.
		Select("DISTINCT model").
		From("cars").
		Where("LOWER(make) = ANY(?)", lowerAll(makes)).
		OrderBy("model"))
}

func (r *StatisticsRepository) YearRange(ctx context.Context) (domain.IntRange, error) {
	sqlStr, args, err := r.sb.Select("COALESCE(MIN(year), 0)", "COALESCE(MAX(year), 0)").From("cars").ToSql()
	if err != nil {
		return domain.IntRange{}, err
	}

	var res domain.IntRange
	if err := conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(&res.Min, &res.Max); err != nil {
		repoLogger(ctx, "StatisticsRepository", "YearRange").Error("Failed to get year range", err, nil)
		return domain.IntRange{}, domain.NewStorageError("year range", err)
	}
	return res, nil
}

func (r *StatisticsRepository) PriceRange(ctx context.Context) (domain.PriceRange, error) {
	sqlStr, args, err := r.sb.Select("COALESCE(MIN(price), 0)", "COALESCE(MAX(price), 0)").From("cars").ToSql()
	if err != nil {
		return domain.PriceRange{}, err
	}

	var res domain.PriceRange
	if err := conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(&res.Min, &res.Max); err != nil {
		repoLogger(ctx, "StatisticsRepository", "PriceRange").Error("Failed to get price range", err, nil)
		return domain.PriceRange{}, domain.NewStorageError("price range", err)
	}
	return res, nil
}

func (r *StatisticsRepository) column(ctx context.Context, method string, b sq.SelectBuilder) ([]string, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		repoLogger(ctx, "StatisticsRepository", method).Error("Query failed", err, port.Fields{"query": sqlStr})
		return nil, domain.NewStorageError(method, err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, domain.NewStorageError(method, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(method, err)
	}
	return out, nil
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
