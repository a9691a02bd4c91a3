package filestorage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Newichka/autoBro/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func newStorage(t *testing.T, maxSize int64) *LocalFileStorage {
	t.Helper()
	s, err := NewLocalFileStorage(Config{
		UploadDir:           t.TempDir(),
		PublicPrefix:        "/uploads/",
		AllowedContentTypes: []string{"image/jpeg", "image/png"},
		MaxFileSize:         maxSize,
	})
	require.NoError(t, err)
	return s
}

func TestLocalFileStorage_StoreAndDelete(t *testing.T) {
	t.Parallel()

	s := newStorage(t, 0)
	ctx := context.Background()

	url, err := s.Store(ctx, 7, domain.UploadedFile{Filename: "front.PNG", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/cars/7/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	stored := filepath.Join(s.Root(), "cars", "7", filepath.Base(url))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, s.Delete(ctx, 7, url))
	_, err = os.Stat(stored)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, 7, url))
	assert.NoError(t, s.DeleteCarDirectory(ctx, 7))
}

func TestLocalFileStorage_Rejects(t *testing.T) {
	t.Parallel()

	s := newStorage(t, 8)
	ctx := context.Background()

	_, err := s.Store(ctx, 1, domain.UploadedFile{Filename: "a.gif", ContentType: "image/gif", Data: []byte("GIF89a")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Store(ctx, 1, domain.UploadedFile{Filename: "big.png", ContentType: "image/png", Data: make([]byte, 9)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Store(ctx, 1, domain.UploadedFile{Filename: "empty.png", ContentType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.ErrorIs(t, s.Delete(ctx, 1, "/uploads/../etc/passwd"), domain.ErrForeignFile)
	assert.ErrorIs(t, s.Delete(ctx, 1, "https://cdn.example/a.jpg"), domain.ErrForeignFile)
}

func TestLocalFileStorage_DeleteKeepsFilesOfOtherCars(t *testing.T) {
	t.Parallel()

	s := newStorage(t, 0)
	ctx := context.Background()

	url, err := s.Store(ctx, 2, domain.UploadedFile{Filename: "victim.png", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)
	stored := filepath.Join(s.Root(), "cars", "2", filepath.Base(url))

	foreign := []string{
		url,
		"/uploads/cars/1/../2/" + filepath.Base(url),
		"/uploads/cars/12/" + filepath.Base(url),
		"/uploads/cars/1/",
		"/uploads/cars/1/sub/a.png",
	}
	for _, u := range foreign {
		assert.ErrorIs(t, s.Delete(ctx, 1, u), domain.ErrForeignFile, u)
	}

	_, err = os.Stat(stored)
	assert.NoError(t, err, "file of car 2 must survive deletes scoped to car 1")
}

func TestLocalFileStorage_DetectsMissingContentType(t *testing.T) {
	t.Parallel()

	s := newStorage(t, 0)

	url, err := s.Store(context.Background(), 2, domain.UploadedFile{Filename: "noext", Data: pngHeader})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"), url)
}

func TestLocalFileStorage_ExtensionFollowsContentType(t *testing.T) {
	t.Parallel()

	s := newStorage(t, 0)
	ctx := context.Background()

	tests := []struct {
		name    string
		file    domain.UploadedFile
		wantExt string
	}{
		{name: "html name with png type", file: domain.UploadedFile{Filename: "x.html", ContentType: "image/png", Data: []byte("<script>alert(1)</script>")}, wantExt: ".png"},
		{name: "svg name with jpeg type", file: domain.UploadedFile{Filename: "x.svg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}, wantExt: ".jpg"},
		{name: "type parameters are ignored", file: domain.UploadedFile{Filename: "photo.htm", ContentType: "image/png; charset=utf-8", Data: pngHeader}, wantExt: ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := s.Store(ctx, 3, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, filepath.Ext(url))
		})
	}
}

func TestLocalFileStorage_RejectsUnknownTypesWithoutWhitelist(t *testing.T) {
	t.Parallel()

	s, err := NewLocalFileStorage(Config{UploadDir: t.TempDir()})
	require.NoError(t, err)

	_, err = s.Store(context.Background(), 1, domain.UploadedFile{Filename: "x.html", ContentType: "text/html", Data: []byte("<html></html>")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// без типа содержимое распознается по сигнатуре
	_, err = s.Store(context.Background(), 1, domain.UploadedFile{Filename: "x.png", Data: []byte("<html><body>hi</body></html>")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
