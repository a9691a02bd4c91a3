package filestorage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	"github.com/google/uuid"
)

// extensionsByType - допустимые типы фотографий, другие типы не принимаются
var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Config struct {
	UploadDir           string
	PublicPrefix        string // "/uploads"
	AllowedContentTypes []string
	MaxFileSize         int64 // <= 0 - без ограничения
}

// LocalFileStorage хранит фотографии в UploadDir/cars/{carID}/{uuid}{ext}
// и отдает URL вида PublicPrefix/cars/{carID}/{file}
type LocalFileStorage struct {
	root    string
	prefix  string
	allowed map[string]struct{}
	maxSize int64
}

var _ port.FileStoragePort = (*LocalFileStorage)(nil)

func NewLocalFileStorage(cfg Config) (*LocalFileStorage, error) {
	if cfg.UploadDir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	root, err := filepath.Abs(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload dir %s: %w", root, err)
	}

	prefix := "/" + strings.Trim(cfg.PublicPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedContentTypes))
	for _, ct := range cfg.AllowedContentTypes {
		if ct = strings.ToLower(strings.TrimSpace(ct)); ct != "" {
			allowed[ct] = struct{}{}
		}
	}

	return &LocalFileStorage{root: root, prefix: prefix, allowed: allowed, maxSize: cfg.MaxFileSize}, nil
}

// Root - каталог для раздачи статики
func (s *LocalFileStorage) Root() string { return s.root }

// PublicPrefix - префикс URL статики
func (s *LocalFileStorage) PublicPrefix() string { return s.prefix }

func (s *LocalFileStorage) carDir(carID int64) string {
	return filepath.Join(s.root, "cars", strconv.FormatInt(carID, 10))
}

func (s *LocalFileStorage) Store(ctx context.Context, carID int64, file domain.UploadedFile) (string, error) {
	if len(file.Data) == 0 {
		return "", domain.NewValidationError(map[string]string{"photos": fmt.Sprintf("file %q is empty", file.Filename)})
	}
	if s.maxSize > 0 && int64(len(file.Data)) > s.maxSize {
		return "", domain.NewValidationError(map[string]string{"photos": fmt.Sprintf("file %q exceeds %d bytes", file.Filename, s.maxSize)})
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(file.ContentType, ";", 2)[0]))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(file.Data)
	}
	ext, known := extensionsByType[contentType]
	if !known {
		return "", domain.NewValidationError(map[string]string{"photos": fmt.Sprintf("file type %s not allowed", contentType)})
	}
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[contentType]; !ok {
			return "", domain.NewValidationError(map[string]string{"photos": fmt.Sprintf("file type %s not allowed", contentType)})
		}
	}

	dir := s.carDir(carID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.NewStorageError("create photo dir", err)
	}

	// расширение берется только из проверенного типа: статика отдается по расширению
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), file.Data, 0o644); err != nil {
		return "", domain.NewStorageError("write photo", err)
	}

	url := path.Join(s.prefix, "cars", strconv.FormatInt(carID, 10), name)
	contextkeys.LoggerFromContext(ctx).Debug("Photo file stored", port.Fields{"car_id": carID, "url": url, "size": len(file.Data)})
	return url, nil
}

// Delete удаляет файл фотографии автомобиля carID по его URL. URL, который
// хранилище не выдавало этому автомобилю, дает domain.ErrForeignFile и файл
// не трогается. Отсутствующий файл не ошибка.
func (s *LocalFileStorage) Delete(ctx context.Context, carID int64, url string) error {
	p, err := s.pathOf(carID, url)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.NewStorageError("delete photo", err)
	}
	return nil
}

func (s *LocalFileStorage) DeleteCarDirectory(ctx context.Context, carID int64) error {
	if err := os.RemoveAll(s.carDir(carID)); err != nil {
		return domain.NewStorageError("delete photo dir", err)
	}
	return nil
}

// pathOf переводит URL в путь файла, лежащего прямо в каталоге автомобиля
func (s *LocalFileStorage) pathOf(carID int64, url string) (string, error) {
	carPrefix := path.Join(s.prefix, "cars", strconv.FormatInt(carID, 10)) + "/"
	if !strings.HasPrefix(url, carPrefix) {
		return "", fmt.Errorf("%w: url %q, car %d", domain.ErrForeignFile, url, carID)
	}
	name := strings.TrimPrefix(url, carPrefix)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: url %q, car %d", domain.ErrForeignFile, url, carID)
	}
	return filepath.Join(s.carDir(carID), name), nil
}
