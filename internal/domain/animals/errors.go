package animals

import (
	"errors"
	"fmt"
)

// Sentinels para errors.Is. ErrDomain agrupa a todos los demás.
var (
	ErrDomain        = errors.New("pet clinic error")
	ErrInvalidData   = errors.New("invalid data")
	ErrNotFound      = errors.New("not found")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrFileOperation = errors.New("file operation failed")
)

// InvalidDataError se devuelve al construir o decodificar un registro con un campo inválido.
type InvalidDataError struct {
	Field   string
	Message string
}

func (e *InvalidDataError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid data: %s", e.Message)
	}
	return fmt.Sprintf("invalid data for field %q: %s", e.Field, e.Message)
}

func (e *InvalidDataError) Is(target error) bool {
	return target == ErrInvalidData || target == ErrDomain
}

// NotFoundError: no existe un animal con ese id.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("animal with id %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrDomain
}

// DuplicateIDError: el id ya está ocupado en el registro.
type DuplicateIDError struct {
	ID int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("animal with id %d already exists", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID || target == ErrDomain
}

// FileOperationError envuelve fallos de I/O (archivo o base de datos) conservando la causa.
type FileOperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileOperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s failed", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileOperationError) Unwrap() error { return e.Err }

func (e *FileOperationError) Is(target error) bool {
	return target == ErrFileOperation || target == ErrDomain
}

func newInvalid(field, format string, args ...any) error {
	return &InvalidDataError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsInvalidData(err error) bool   { return errors.Is(err, ErrInvalidData) }
func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsDuplicateID(err error) bool   { return errors.Is(err, ErrDuplicateID) }
func IsFileOperation(err error) bool { return errors.Is(err, ErrFileOperation) }
