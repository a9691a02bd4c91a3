package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PhotoRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

var _ port.PhotoRepositoryPort = (*PhotoRepository)(nil)

func NewPhotoRepository(pool *pgxpool.Pool) (*PhotoRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PhotoRepository{pool: pool, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}, nil
}

func (r *PhotoRepository) ListByCar(ctx context.Context, carID int64) ([]domain.Photo, error) {
	sqlStr, args, err := r.sb.
		Select("id", "car_id", "url", "is_main", "created_at").
		From("car_photos").
		Where(sq.Eq{"car_id": carID}).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, domain.NewStorageError("list photos", err)
	}
	defer rows.Close()

	photos := make([]domain.Photo, 0)
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.CarID, &p.URL, &p.IsMain, &p.CreatedAt); err != nil {
			return nil, domain.NewStorageError("scan photo", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list photos", err)
	}
	return photos, nil
}

func (r *PhotoRepository) GetByID(ctx context.Context, photoID int64) (*domain.Photo, error) {
	sqlStr, args, err := r.sb.
		Select("id", "car_id", "url", "is_main", "created_at").
		From("car_photos").
		Where(sq.Eq{"id": photoID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p domain.Photo
	err = conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(&p.ID, &p.CarID, &p.URL, &p.IsMain, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("photo", photoID)
		}
		return nil, domain.NewStorageError("get photo", err)
	}
	return &p, nil
}

// Add вставляет фото в конец списка автомобиля
func (r *PhotoRepository) Add(ctx context.Context, carID int64, url string, isMain bool) (*domain.Photo, error) {
	sqlStr, args, err := r.sb.
		Insert("car_photos").
		Columns("car_id", "url", "is_main", "position").
		Values(carID, url, isMain, sq.Expr("(SELECT COALESCE(MAX(position), -1) + 1 FROM car_photos WHERE car_id = ?)", carID)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	p := domain.Photo{CarID: carID, URL: url, IsMain: isMain}
	q := conn(ctx, r.pool)
	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.ConflictError{Reason: fmt.Sprintf("photo %s already attached to car %d", url, carID)}
		}
		repoLogger(ctx, "PhotoRepository", "Add").Error("Failed to insert photo", err, port.Fields{"car_id": carID})
		return nil, domain.NewStorageError("add photo", err)
	}

	if err := r.touchCar(ctx, q, carID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, photoID int64) error {
	sqlStr, args, err := r.sb.
		Delete("car_photos").
		Where(sq.Eq{"id": photoID}).
		Suffix("RETURNING car_id").
		ToSql()
	if err != nil {
		return err
	}

	q := conn(ctx, r.pool)
	var carID int64
	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&carID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("photo", photoID)
		}
		return domain.NewStorageError("delete photo", err)
	}
	return r.touchCar(ctx, q, carID)
}

func (r *PhotoRepository) DeleteByCar(ctx context.Context, carID int64) error {
	sqlStr, args, err := r.sb.Delete("car_photos").Where(sq.Eq{"car_id": carID}).ToSql()
	if err != nil {
		return err
	}

	q := conn(ctx, r.pool)
	if _, err := q.Exec(ctx, sqlStr, args...); err != nil {
		return domain.NewStorageError("delete car photos", err)
	}
	return r.touchCar(ctx, q, carID)
}

func (r *PhotoRepository) SetMainPhotoURL(ctx context.Context, carID int64, url *string) error {
	sqlStr, args, err := r.sb.
		Update("cars").
		Set("main_photo_url", url).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": carID}).
		ToSql()
	if err != nil {
		return err
	}

	q := conn(ctx, r.pool)
	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return domain.NewStorageError("set main photo", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("car", carID)
	}
	if err := syncMainFlags(ctx, q, carID); err != nil {
		return domain.NewStorageError("set main photo", err)
	}
	return nil
}

func (r *PhotoRepository) touchCar(ctx context.Context, q querier, carID int64) error {
	sqlStr, args, err := r.sb.Update("cars").Set("updated_at", sq.Expr("now()")).Where(sq.Eq{"id": carID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, sqlStr, args...); err != nil {
		return domain.NewStorageError("touch car", err)
	}
	return nil
}
