package rest

import (
	"encoding/json"
	"net/http"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
	"github.com/Newichka/autoBro/internal/core/port/usecases_port"
)

type CarHandler struct {
	searchUC           usecases_port.SearchCarsUseCase
	getByIDUC          usecases_port.GetCarByIDUseCase
	createUC           usecases_port.CreateCarUseCase
	createWithPhotosUC usecases_port.CreateCarWithPhotosUseCase
	updateUC           usecases_port.UpdateCarUseCase
	deleteUC           usecases_port.DeleteCarUseCase
}

func NewCarHandler(
	searchUC usecases_port.SearchCarsUseCase,
	getByIDUC usecases_port.GetCarByIDUseCase,
	createUC usecases_port.CreateCarUseCase,
	createWithPhotosUC usecases_port.CreateCarWithPhotosUseCase,
	updateUC usecases_port.UpdateCarUseCase,
	deleteUC usecases_port.DeleteCarUseCase,
) *CarHandler {
	return &CarHandler{
		searchUC:           searchUC,
		getByIDUC:          getByIDUC,
		createUC:           createUC,
		createWithPhotosUC: createWithPhotosUC,
		updateUC:           updateUC,
		deleteUC:           deleteUC,
	}
}

// SearchCars обрабатывает GET /api/v1/cars
func (h *CarHandler) SearchCars(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r.URL.Query())

	filter := domain.CarFilter{
		Makes:            q.list("make"),
		Model:            q.optString("model"),
		MinYear:          q.optInt("minYear"),
		MaxYear:          q.optInt("maxYear"),
		MinPrice:         q.optFloat("minPrice"),
		MaxPrice:         q.optFloat("maxPrice"),
		MaxMileage:       q.optInt("maxMileage"),
		MinHorsePower:    q.optInt("minHorsePower"),
		BodyTypeID:       q.optInt64("bodyTypeId"),
		ColorID:          q.optInt64("colorId"),
		FuelType:         q.optString("fuelType"),
		TransmissionType: q.optString("transmissionType"),
		DriveType:        q.optString("driveType"),
		Country:          q.optString("country"),
		City:             q.optString("city"),
	}
	page := domain.PageRequest{
		Page:          intOr(q.optInt("page"), 0),
		Size:          intOr(q.optInt("size"), domain.DefaultPageSize),
		SortBy:        r.URL.Query().Get("sortBy"),
		SortDirection: r.URL.Query().Get("sortDirection"),
	}
	if err := q.err(); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	result, err := h.searchUC.Execute(r.Context(), filter, page)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toPaginatedResponse(result))
}

// GetCar обрабатывает GET /api/v1/cars/{carID}
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "carID")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	view, err := h.getByIDUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toCarResponse(*view))
}

// CreateCar обрабатывает POST /api/v1/cars с JSON-телом
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req CarRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	view, err := h.createUC.Execute(r.Context(), req.toInput())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toCarResponse(*view))
}

// CreateCarWithPhotos обрабатывает multipart POST /api/v1/cars/with-photos:
// поле car с JSON, файл mainPhoto и файлы photos
func (h *CarHandler) CreateCarWithPhotos(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateCarWithPhotos"})

	if err := parseMultipart(w, r); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	var req CarRequest
	if err := json.Unmarshal([]byte(r.FormValue("car")), &req); err != nil {
		writeUseCaseError(w, r, domain.NewValidationError(map[string]string{"car": "malformed JSON: " + err.Error()}))
		return
	}

	mains, err := formFiles(r, "mainPhoto")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	var mainPhoto *domain.UploadedFile
	if len(mains) > 0 {
		mainPhoto = &mains[0]
	}

	photos, err := formFiles(r, "photos", "additionalPhotos")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	logger.Debug("Multipart car received", port.Fields{"has_main_photo": mainPhoto != nil, "photo_count": len(photos)})

	view, err := h.createWithPhotosUC.Execute(r.Context(), req.toInput(), mainPhoto, photos)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, toCarResponse(*view))
}

// UpdateCar обрабатывает PUT /api/v1/cars/{carID}
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "carID")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	var req CarRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	view, err := h.updateUC.Execute(r.Context(), id, req.toInput())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toCarResponse(*view))
}

// DeleteCar обрабатывает DELETE /api/v1/cars/{carID}
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "carID")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	if err := h.deleteUC.Execute(r.Context(), id); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
