package rest

import (
	"context"
	"net/http"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port/usecases_port"
)

type PhotoHandler struct {
	uploadUC  usecases_port.UploadPhotosUseCase
	replaceUC usecases_port.ReplacePhotosUseCase
	deleteUC  usecases_port.DeletePhotoUseCase
}

func NewPhotoHandler(
	uploadUC usecases_port.UploadPhotosUseCase,
	replaceUC usecases_port.ReplacePhotosUseCase,
	deleteUC usecases_port.DeletePhotoUseCase,
) *PhotoHandler {
	return &PhotoHandler{uploadUC: uploadUC, replaceUC: replaceUC, deleteUC: deleteUC}
}

type photoWriteFunc func(ctx context.Context, carID int64, files []domain.UploadedFile) ([]string, error)

// UploadPhotos обрабатывает POST /api/v1/cars/{carID}/photos
func (h *PhotoHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	h.writePhotos(w, r, h.uploadUC.Execute, http.StatusCreated)
}

// ReplacePhotos обрабатывает PUT /api/v1/cars/{carID}/photos
func (h *PhotoHandler) ReplacePhotos(w http.ResponseWriter, r *http.Request) {
	h.writePhotos(w, r, h.replaceUC.Execute, http.StatusOK)
}

func (h *PhotoHandler) writePhotos(w http.ResponseWriter, r *http.Request, execute photoWriteFunc, status int) {
	carID, err := pathID(r, "carID")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	if err := parseMultipart(w, r); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	files, err := formFiles(r, "photos", "files")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	if len(files) == 0 {
		writeUseCaseError(w, r, domain.NewValidationError(map[string]string{"photos": "at least one file is required"}))
		return
	}

	urls, err := execute(r.Context(), carID, files)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	RespondWithJSON(w, status, PhotoURLsResponse{Photos: nonNil(urls)})
}

// DeletePhoto обрабатывает DELETE /api/v1/cars/{carID}/photos/{photoID}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "carID")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	if err := h.deleteUC.Execute(r.Context(), carID, photoID); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
