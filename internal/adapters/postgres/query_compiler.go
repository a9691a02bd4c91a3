package postgres

import (
	"fmt"
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
)

// carFrom - общий FROM для выборки и подсчета. Справочники и характеристики 1:1,
// поэтому LEFT JOIN не размножает строки.
const carFrom = `FROM cars c
	LEFT JOIN body_types bt ON bt.id = c.body_type_id
	LEFT JOIN colors cl ON cl.id = c.color_id
	LEFT JOIN car_tech_specs ts ON ts.car_id = c.id`

const carColumns = `c.id, c.make, c.model, c.year, c.price, c.mileage, c.condition, c.location, c.main_photo_url,
	c.body_type_id, bt.name, c.color_id, cl.name, cl.hex_code,
	ts.id, ts.fuel_type, ts.engine_volume, ts.horse_power, ts.drive_type, ts.transmission_type, ts.gears,
	ts.engine_info, ts.transmission_info,
	c.created_at, c.updated_at`

// sortColumns переводит логические имена полей в колонки
var sortColumns = map[string]string{
	"id":        "c.id",
	"make":      "c.make",
	"model":     "c.model",
	"year":      "c.year",
	"price":     "c.price",
	"mileage":   "c.mileage",
	"createdAt": "c.created_at",
	"updatedAt": "c.updated_at",
}

// QueryPlan - пара запросов поиска с общим предикатом.
// DataArgs = Args + LIMIT + OFFSET.
type QueryPlan struct {
	CountSQL string
	DataSQL  string
	Args     []interface{}
	DataArgs []interface{}

	Page int
	Size int
}

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{argID: 1, args: make([]interface{}, 0)}
}

// addCondition: condition содержит один %d под номер плейсхолдера
func (qb *queryBuilder) addCondition(condition string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) addEq(column string, arg interface{}) {
	qb.addCondition(column+" = $%d", arg)
}

func (qb *queryBuilder) addIntRange(column string, min, max *int) {
	if min != nil {
		qb.addCondition(column+" >= $%d", *min)
	}
	if max != nil {
		qb.addCondition(column+" <= $%d", *max)
	}
}

func (qb *queryBuilder) addFloatRange(column string, min, max *float64) {
	if min != nil {
		qb.addCondition(column+" >= $%d", *min)
	}
	if max != nil {
		qb.addCondition(column+" <= $%d", *max)
	}
}

// likeEscaper экранирует метасимволы LIKE, значение фильтра ищется как обычная подстрока
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// addLocation оставляет автомобили без местоположения в выдаче
func (qb *queryBuilder) addLocation(value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	qb.addCondition(`(c.location IS NULL OR c.location ILIKE '%%' || $%d || '%%' ESCAPE '\')`, likeEscaper.Replace(strings.TrimSpace(*value)))
}

func (qb *queryBuilder) where() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func applyCarFilter(qb *queryBuilder, f domain.CarFilter) {
	makes := make([]string, 0, len(f.Makes))
	for _, m := range f.Makes {
		if m = strings.TrimSpace(m); m != "" {
			makes = append(makes, m)
		}
	}
	if len(makes) > 0 {
		qb.addCondition("c.make = ANY($%d)", makes)
	}

	if f.Model != nil && *f.Model != "" {
		qb.addEq("c.model", *f.Model)
	}

	qb.addIntRange("c.year", f.MinYear, f.MaxYear)
	qb.addFloatRange("c.price", f.MinPrice, f.MaxPrice)
	qb.addIntRange("c.mileage", nil, f.MaxMileage)
	qb.addIntRange("ts.horse_power", f.MinHorsePower, nil)

	if f.BodyTypeID != nil {
		qb.addEq("c.body_type_id", *f.BodyTypeID)
	}
	if f.ColorID != nil {
		qb.addEq("c.color_id", *f.ColorID)
	}

	// при отсутствии характеристик ts.* = NULL и условие не выполняется
	if f.FuelType != nil && *f.FuelType != "" {
		qb.addEq("ts.fuel_type", *f.FuelType)
	}
	if f.TransmissionType != nil && *f.TransmissionType != "" {
		qb.addEq("ts.transmission_type", *f.TransmissionType)
	}
	if f.DriveType != nil && *f.DriveType != "" {
		qb.addEq("ts.drive_type", *f.DriveType)
	}

	qb.addLocation(f.Country)
	qb.addLocation(f.City)
}

func orderBy(page domain.PageRequest) string {
	column, ok := sortColumns[page.SortBy]
	if !ok {
		column = sortColumns[domain.DefaultSortBy]
	}
	direction := "ASC"
	if strings.EqualFold(strings.TrimSpace(page.SortDirection), "desc") {
		direction = "DESC"
	}
	if column == "c.id" {
		return "ORDER BY c.id " + direction
	}
	return fmt.Sprintf("ORDER BY %s %s, c.id ASC", column, direction)
}

// CompileCarQuery строит запросы подсчета и страницы с одинаковыми FROM и WHERE
func CompileCarQuery(filter domain.CarFilter, page domain.PageRequest) QueryPlan {
	page = page.Normalize()

	qb := newQueryBuilder()
	applyCarFilter(qb, filter)
	where := qb.where()

	dataArgs := make([]interface{}, 0, len(qb.args)+2)
	dataArgs = append(dataArgs, qb.args...)
	dataArgs = append(dataArgs, page.Size, page.Page*page.Size)

	return QueryPlan{
		CountSQL: strings.TrimSpace(fmt.Sprintf("SELECT COUNT(c.id) %s %s", carFrom, where)),
		DataSQL: fmt.Sprintf("SELECT %s %s %s %s LIMIT $%d OFFSET $%d",
			carColumns, carFrom, where, orderBy(page), qb.argID, qb.argID+1),
		Args:     qb.args,
		DataArgs: dataArgs,
		Page:     page.Page,
		Size:     page.Size,
	}
}
