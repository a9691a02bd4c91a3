package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, errorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// writeUseCaseError переводит доменные ошибки в HTTP-статусы
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		RespondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: validationErr.Fields})
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		writeUseCaseErrorStatus(w, r, err, http.StatusInternalServerError, "internal server error")
	}
}

// writeUseCaseErrorStatus логирует непредвиденную ошибку и не раскрывает ее клиенту
func writeUseCaseErrorStatus(w http.ResponseWriter, r *http.Request, err error, status int, message string) {
	contextkeys.LoggerFromContext(r.Context()).Error("Request failed", err, port.Fields{"http_path": r.URL.Path, "status_code": status})
	WriteJSONError(w, status, message)
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict)
}

func decodeJSONBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError(map[string]string{"body": "malformed JSON: " + err.Error()})
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

// queryParser накапливает ошибки разбора query-параметров
type queryParser struct {
	values url.Values
	errs   map[string]string
}

func newQueryParser(values url.Values) *queryParser {
	return &queryParser{values: values, errs: map[string]string{}}
}

func (p *queryParser) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return domain.NewValidationError(p.errs)
}

func (p *queryParser) optString(key string) *string {
	v := strings.TrimSpace(p.values.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// list принимает и повторяющийся параметр, и список через запятую
func (p *queryParser) list(key string) []string {
	var out []string
	for _, raw := range p.values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (p *queryParser) optInt(key string) *int {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs[key] = "must be an integer"
		return nil
	}
	return &v
}

func (p *queryParser) optInt64(key string) *int64 {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.errs[key] = "must be an integer"
		return nil
	}
	return &v
}

func (p *queryParser) optFloat(key string) *float64 {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs[key] = "must be a number"
		return nil
	}
	return &v
}

func (p *queryParser) flag(key string) bool {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs[key] = "must be a boolean"
		return false
	}
	return v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
