package rest

import (
	"net/http"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

// CatalogHandler отдает статистику каталога и справочники
type CatalogHandler struct {
	listMakesUC       usecases_port.ListMakesUseCase
	listModelsUC      usecases_port.ListModelsUseCase
	yearRangeUC       usecases_port.YearRangeUseCase
	priceRangeUC      usecases_port.PriceRangeUseCase
	getDictionariesUC usecases_port.GetDictionariesUseCase
}

func NewCatalogHandler(
	listMakesUC usecases_port.ListMakesUseCase,
	listModelsUC usecases_port.ListModelsUseCase,
	yearRangeUC usecases_port.YearRangeUseCase,
	priceRangeUC usecases_port.PriceRangeUseCase,
	getDictionariesUC usecases_port.GetDictionariesUseCase,
) *CatalogHandler {
	return &CatalogHandler{
		listMakesUC:       listMakesUC,
		listModelsUC:      listModelsUC,
		yearRangeUC:       yearRangeUC,
		priceRangeUC:      priceRangeUC,
		getDictionariesUC: getDictionariesUC,
	}
}

func (h *CatalogHandler) ListMakes(w http.ResponseWriter, r *http.Request) {
	makes, err := h.listMakesUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, nonNil(makes))
}

// ListModels принимает ?make=X (можно повторять) или ?makes=A,B
func (h *CatalogHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r.URL.Query())
	makes := append(q.list("make"), q.list("makes")...)
	if len(makes) == 0 {
		writeUseCaseError(w, r, domain.NewValidationError(map[string]string{"make": "at least one make is required"}))
		return
	}

	models, err := h.listModelsUC.Execute(r.Context(), makes)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, nonNil(models))
}

func (h *CatalogHandler) YearRange(w http.ResponseWriter, r *http.Request) {
	rng, err := h.yearRangeUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, YearRangeResponse{Min: rng.Min, Max: rng.Max})
}

func (h *CatalogHandler) PriceRange(w http.ResponseWriter, r *http.Request) {
	rng, err := h.priceRangeUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, PriceRangeResponse{Min: rng.Min, Max: rng.Max})
}

// GetDictionaries обрабатывает GET /api/v1/dictionaries?names=a,b. Без names - все справочники.
func (h *CatalogHandler) GetDictionaries(w http.ResponseWriter, r *http.Request) {
	names := newQueryParser(r.URL.Query()).list("names")

	dictionaries, err := h.getDictionariesUC.Execute(r.Context(), names)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toDictionariesResponse(dictionaries))
}

// GetDictionary обрабатывает GET /api/v1/dictionaries/{name}
func (h *CatalogHandler) GetDictionary(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	dictionaries, err := h.getDictionariesUC.Execute(r.Context(), []string{name})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	items, ok := dictionaries[name]
	if !ok {
		writeUseCaseError(w, r, domain.NewNotFoundError("dictionary", name))
		return
	}
	RespondWithJSON(w, http.StatusOK, toItems(items))
}

func toDictionariesResponse(dictionaries map[string][]domain.DictionaryItem) DictionariesResponse {
	response := make(DictionariesResponse, len(dictionaries))
	for name, items := range dictionaries {
		response[name] = toItems(items)
	}
	return response
}

func toItems(items []domain.DictionaryItem) []DictionaryItemResponse {
	return lo.Map(items, func(item domain.DictionaryItem, _ int) DictionaryItemResponse {
		return toDictionaryItemResponse(item)
	})
}
