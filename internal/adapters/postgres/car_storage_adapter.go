package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CarStorageAdapter реализует CarStoragePort для PostgreSQL
type CarStorageAdapter struct {
	pool *pgxpool.Pool
}

var _ port.CarStoragePort = (*CarStorageAdapter)(nil)

func NewCarStorageAdapter(pool *pgxpool.Pool) (*CarStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &CarStorageAdapter{pool: pool}, nil
}

func repoLogger(ctx context.Context, component, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": component,
		"method":    method,
	})
}

// inTx выполняет fn в ambient-транзакции или открывает свою
func (a *CarStorageAdapter) inTx(ctx context.Context, opts pgx.TxOptions, fn func(q querier) error) error {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(tx)
	}

	tx, err := a.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (a *CarStorageAdapter) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	q := conn(ctx, a.pool)

	car, err := scanCar(q.QueryRow(ctx, fmt.Sprintf("SELECT %s %s WHERE c.id = $1", carColumns, carFrom), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("car", id)
		}
		repoLogger(ctx, "CarStorageAdapter", "GetByID").Error("Failed to load car", err, port.Fields{"car_id": id})
		return nil, domain.NewStorageError("get car", err)
	}

	if err := loadRelations(ctx, q, []*domain.Car{car}); err != nil {
		return nil, domain.NewStorageError("load car relations", err)
	}
	return car, nil
}

// Search выполняет подсчет и выборку страницы в одной читающей транзакции
func (a *CarStorageAdapter) Search(ctx context.Context, filter domain.CarFilter, page domain.PageRequest) (*domain.PaginatedCars, error) {
	plan := CompileCarQuery(filter, page)
	logger := repoLogger(ctx, "CarStorageAdapter", "Search").WithFields(port.Fields{"page": plan.Page, "size": plan.Size})

	result := &domain.PaginatedCars{Items: []domain.Car{}, Page: plan.Page, Size: plan.Size}

	err := a.inTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(q querier) error {
		if err := q.QueryRow(ctx, plan.CountSQL, plan.Args...).Scan(&result.TotalCount); err != nil {
			logger.Error("Failed to count cars with filters", err, port.Fields{"query": plan.CountSQL})
			return fmt.Errorf("failed to count cars: %w", err)
		}
		if result.TotalCount == 0 {
			return nil
		}

		rows, err := q.Query(ctx, plan.DataSQL, plan.DataArgs...)
		if err != nil {
			logger.Error("Failed to find cars with filters", err, port.Fields{"query": plan.DataSQL})
			return fmt.Errorf("failed to find cars: %w", err)
		}
		cars := make([]*domain.Car, 0, plan.Size)
		for rows.Next() {
			car, err := scanCar(rows)
			if err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan car: %w", err)
			}
			cars = append(cars, car)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to read cars: %w", err)
		}

		if err := loadRelations(ctx, q, cars); err != nil {
			return err
		}
		for _, car := range cars {
			result.Items = append(result.Items, *car)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("search cars", err)
	}

	logger.Debug("Cars page loaded", port.Fields{"total_count": result.TotalCount, "count": len(result.Items)})
	return result, nil
}

func (a *CarStorageAdapter) Create(ctx context.Context, m domain.CarMutation) (int64, error) {
	var id int64
	err := a.inTx(ctx, pgx.TxOptions{}, func(q querier) error {
		c := m.Car
		err := q.QueryRow(ctx, `
			INSERT INTO cars (make, model, year, price, mileage, condition, location, main_photo_url, body_type_id, color_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			c.Make, c.Model, c.Year, c.Price, c.Mileage, c.Condition, c.Location, c.MainPhotoURL, c.BodyTypeID, c.ColorID,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert car: %w", err)
		}
		return writeDependents(ctx, q, id, m)
	})
	if err != nil {
		repoLogger(ctx, "CarStorageAdapter", "Create").Error("Failed to create car", err, nil)
		return 0, domain.NewStorageError("create car", err)
	}
	return id, nil
}

func (a *CarStorageAdapter) Update(ctx context.Context, id int64, m domain.CarMutation) error {
	err := a.inTx(ctx, pgx.TxOptions{}, func(q querier) error {
		c := m.Car
		tag, err := q.Exec(ctx, `
			UPDATE cars SET
				make = $2, model = $3, year = $4, price = $5, mileage = $6,
				condition = $7, location = $8, main_photo_url = $9,
				body_type_id = $10, color_id = $11, updated_at = now()
			WHERE id = $1`,
			id, c.Make, c.Model, c.Year, c.Price, c.Mileage, c.Condition, c.Location, c.MainPhotoURL, c.BodyTypeID, c.ColorID,
		)
		if err != nil {
			return fmt.Errorf("failed to update car: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.NewNotFoundError("car", id)
		}
		return writeDependents(ctx, q, id, m)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		repoLogger(ctx, "CarStorageAdapter", "Update").Error("Failed to update car", err, port.Fields{"car_id": id})
		return domain.NewStorageError("update car", err)
	}
	return nil
}

// Delete удаляет автомобиль одним запросом, зависимые строки уходят по ON DELETE CASCADE
func (a *CarStorageAdapter) Delete(ctx context.Context, id int64) error {
	tag, err := conn(ctx, a.pool).Exec(ctx, "DELETE FROM cars WHERE id = $1", id)
	if err != nil {
		repoLogger(ctx, "CarStorageAdapter", "Delete").Error("Failed to delete car", err, port.Fields{"car_id": id})
		return domain.NewStorageError("delete car", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("car", id)
	}
	return nil
}

// writeDependents пишет характеристики и связи. nil в мутации - не трогать.
func writeDependents(ctx context.Context, q querier, carID int64, m domain.CarMutation) error {
	if s := m.Spec; s != nil {
		_, err := q.Exec(ctx, `
			INSERT INTO car_tech_specs (car_id, fuel_type, engine_volume, horse_power, drive_type, transmission_type, gears, engine_info, transmission_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (car_id) DO UPDATE SET
				fuel_type = EXCLUDED.fuel_type,
				engine_volume = EXCLUDED.engine_volume,
				horse_power = EXCLUDED.horse_power,
				drive_type = EXCLUDED.drive_type,
				transmission_type = EXCLUDED.transmission_type,
				gears = EXCLUDED.gears,
				engine_info = EXCLUDED.engine_info,
				transmission_info = EXCLUDED.transmission_info`,
			carID, s.FuelType, s.EngineVolume, s.HorsePower, s.DriveType, s.TransmissionType, s.Gears, s.EngineInfo, s.TransmissionInfo,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert technical spec: %w", err)
		}
	}

	if m.SafetyFeatureIDs != nil {
		if err := replaceLinks(ctx, q, "car_safety_features", "safety_feature_id", carID, m.SafetyFeatureIDs); err != nil {
			return err
		}
	}
	if m.EquipmentIDs != nil {
		if err := replaceLinks(ctx, q, "car_equipment", "equipment_id", carID, m.EquipmentIDs); err != nil {
			return err
		}
	}

	if m.PhotoURLs != nil {
		if _, err := q.Exec(ctx, "DELETE FROM car_photos WHERE car_id = $1 AND NOT (url = ANY($2))", carID, m.PhotoURLs); err != nil {
			return fmt.Errorf("failed to remove photos: %w", err)
		}
		_, err := q.Exec(ctx, `
			INSERT INTO car_photos (car_id, url, position)
			SELECT $1, u.url, u.ord - 1 FROM unnest($2::text[]) WITH ORDINALITY AS u(url, ord)
			ON CONFLICT (car_id, url) DO UPDATE SET position = EXCLUDED.position`,
			carID, m.PhotoURLs,
		)
		if err != nil {
			return fmt.Errorf("failed to write photos: %w", err)
		}
	}

	return syncMainFlags(ctx, q, carID)
}

func replaceLinks(ctx context.Context, q querier, table, column string, carID int64, ids []int64) error {
	if _, err := q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE car_id = $1", table), carID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (car_id, %s, position)
		SELECT $1, l.id, l.ord - 1 FROM unnest($2::bigint[]) WITH ORDINALITY AS l(id, ord)
		ON CONFLICT DO NOTHING`, table, column),
		carID, ids,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", table, err)
	}
	return nil
}

// syncMainFlags выставляет is_main по cars.main_photo_url
func syncMainFlags(ctx context.Context, q querier, carID int64) error {
	_, err := q.Exec(ctx, `
		UPDATE car_photos p
		SET is_main = (c.main_photo_url IS NOT NULL AND p.url = c.main_photo_url)
		FROM cars c
		WHERE c.id = p.car_id AND p.car_id = $1`, carID)
	if err != nil {
		return fmt.Errorf("failed to sync main photo flags: %w", err)
	}
	return nil
}

func scanCar(row pgx.Row) (*domain.Car, error) {
	var (
		car                        domain.Car
		bodyName, colorName, hex   *string
		specID                     *int64
		fuel, drive, transmission  *string
		volume                     *float64
		horsePower, gears          *int
		engineInfo, transmissionEx *string
	)

	err := row.Scan(
		&car.ID, &car.Make, &car.Model, &car.Year, &car.Price, &car.Mileage, &car.Condition, &car.Location, &car.MainPhotoURL,
		&car.BodyTypeID, &bodyName, &car.ColorID, &colorName, &hex,
		&specID, &fuel, &volume, &horsePower, &drive, &transmission, &gears,
		&engineInfo, &transmissionEx,
		&car.CreatedAt, &car.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if car.BodyTypeID != nil && bodyName != nil {
		car.BodyType = &domain.DictionaryItem{ID: *car.BodyTypeID, Name: *bodyName}
	}
	if car.ColorID != nil && colorName != nil {
		car.Color = &domain.DictionaryItem{ID: *car.ColorID, Name: *colorName, HexCode: hex}
	}
	if specID != nil {
		spec := &domain.TechnicalSpec{
			ID:               *specID,
			CarID:            car.ID,
			FuelType:         fuel,
			EngineVolume:     volume,
			HorsePower:       horsePower,
			DriveType:        drive,
			TransmissionType: transmission,
			Gears:            gears,
		}
		if engineInfo != nil {
			spec.EngineInfo = *engineInfo
		}
		if transmissionEx != nil {
			spec.TransmissionInfo = *transmissionEx
		}
		car.TechnicalSpec = spec
	}

	car.Photos = []domain.Photo{}
	car.SafetyFeatures = []domain.DictionaryItem{}
	car.Equipment = []domain.DictionaryItem{}
	return &car, nil
}

// loadRelations догружает фотографии и списки пачкой для всех cars
func loadRelations(ctx context.Context, q querier, cars []*domain.Car) error {
	if len(cars) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Car, len(cars))
	ids := make([]int64, 0, len(cars))
	for _, c := range cars {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	rows, err := q.Query(ctx, `
		SELECT id, car_id, url, is_main, created_at FROM car_photos
		WHERE car_id = ANY($1) ORDER BY car_id, position, id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.CarID, &p.URL, &p.IsMain, &p.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan photo: %w", err)
		}
		byID[p.CarID].Photos = append(byID[p.CarID].Photos, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read photos: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT l.car_id, sf.id, sf.name FROM car_safety_features l
		JOIN safety_features sf ON sf.id = l.safety_feature_id
		WHERE l.car_id = ANY($1) ORDER BY l.car_id, l.position`, ids)
	if err != nil {
		return fmt.Errorf("failed to load safety features: %w", err)
	}
	for rows.Next() {
		var carID int64
		var item domain.DictionaryItem
		if err := rows.Scan(&carID, &item.ID, &item.Name); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan safety feature: %w", err)
		}
		byID[carID].SafetyFeatures = append(byID[carID].SafetyFeatures, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read safety features: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT l.car_id, e.id, e.name, e.category, e.is_standard, e.description FROM car_equipment l
		JOIN equipment e ON e.id = l.equipment_id
		WHERE l.car_id = ANY($1) ORDER BY l.car_id, l.position`, ids)
	if err != nil {
		return fmt.Errorf("failed to load equipment: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var carID int64
		var item domain.DictionaryItem
		if err := rows.Scan(&carID, &item.ID, &item.Name, &item.Category, &item.IsStandard, &item.Description); err != nil {
			return fmt.Errorf("failed to scan equipment: %w", err)
		}
		byID[carID].Equipment = append(byID[carID].Equipment, item)
	}
	return rows.Err()
}
