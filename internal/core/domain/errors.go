package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")

	// ErrDictionaryConflict - вставка в справочник проиграла гонку уникальному ограничению
	ErrDictionaryConflict = errors.New("dictionary entry already exists")

	// ErrForeignFile - URL фотографии не указывает на файл, выданный хранилищем этому автомобилю
	ErrForeignFile = errors.New("photo file is not owned by car")
)

// ValidationError перечисляет все поля, не прошедшие проверку
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError - сущность вида Kind с ключом Key отсутствует
type NotFoundError struct {
	Kind string
	Key  interface{}
}

func NewNotFoundError(kind string, key interface{}) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError - операция противоречит текущему состоянию, например фото чужого автомобиля
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return "conflict: " + e.Reason }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// StorageError - инфраструктурная ошибка хранилища или файлов
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
