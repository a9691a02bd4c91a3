package rest

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Newichka/autoBro/internal/core/domain"
)

const (
	multipartMemory = 32 << 20
	maxUploadBytes  = 128 << 20
)

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return domain.NewValidationError(map[string]string{"form": "failed to parse multipart form: " + err.Error()})
	}
	return nil
}

// formFiles читает все файлы из полей fields в порядке их следования
func formFiles(r *http.Request, fields ...string) ([]domain.UploadedFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var files []domain.UploadedFile
	for _, field := range fields {
		for _, header := range r.MultipartForm.File[field] {
			f, err := readFormFile(header)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func readFormFile(header *multipart.FileHeader) (domain.UploadedFile, error) {
	file, err := header.Open()
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("open uploaded file %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("read uploaded file %s: %w", header.Filename, err)
	}
	return domain.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
