package rest

import (
	"net/http"
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port/usecases_port"

	"github.com/samber/lo"
)

type ParserHandler struct {
	fetchUC  usecases_port.FetchListingsUseCase
	importUC usecases_port.FetchAndImportUseCase
}

func NewParserHandler(fetchUC usecases_port.FetchListingsUseCase, importUC usecases_port.FetchAndImportUseCase) *ParserHandler {
	return &ParserHandler{fetchUC: fetchUC, importUC: importUC}
}

// FetchListings обрабатывает GET /api/v1/parser/listings?url=
func (h *ParserHandler) FetchListings(w http.ResponseWriter, r *http.Request) {
	h.fetch(w, r, false)
}

// FetchDetails обрабатывает GET /api/v1/parser/details?url=
func (h *ParserHandler) FetchDetails(w http.ResponseWriter, r *http.Request) {
	h.fetch(w, r, true)
}

func (h *ParserHandler) fetch(w http.ResponseWriter, r *http.Request, details bool) {
	listings, err := h.fetchUC.Execute(r.Context(), r.URL.Query().Get("url"), details)
	if err != nil {
		writeParserError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, lo.Map(listings, func(l domain.ParsedListing, _ int) ParsedListingResponse {
		return toListingResponse(l)
	}))
}

// Import обрабатывает POST /api/v1/parser/import. URL берется из тела или из ?url=.
func (h *ParserHandler) Import(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r.URL.Query())
	req := ImportRequest{URL: r.URL.Query().Get("url"), Details: q.flag("details")}
	if err := q.err(); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	if r.ContentLength != 0 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSONBody(r, &req); err != nil {
			writeUseCaseError(w, r, err)
			return
		}
	}

	stats, err := h.importUC.Execute(r.Context(), req.URL, req.Details)
	if err != nil {
		writeParserError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toImportStatsResponse(stats))
}

// writeParserError: сбой внешнего парсера - 502, доменные ошибки как обычно
func writeParserError(w http.ResponseWriter, r *http.Request, err error) {
	if isDomainError(err) {
		writeUseCaseError(w, r, err)
		return
	}
	writeUseCaseErrorStatus(w, r, err, http.StatusBadGateway, "parser failed")
}
