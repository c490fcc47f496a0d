// Package file persiste snapshots del registro como documento completo en disco.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pet-clinic-registry/internal/adapters/codec"
	"pet-clinic-registry/internal/domain/animals"
)

// Store lee y escribe el archivo entero; no hay lectura parcial ni reintentos.
type Store struct {
	path  string
	codec animals.Codec
}

func NewStore(path string, c animals.Codec) *Store {
	return &Store{path: path, codec: c}
}

// NewStoreForPath elige el codec por la extensión del archivo.
func NewStoreForPath(path string) (*Store, error) {
	c, err := CodecForPath(path)
	if err != nil {
		return nil, err
	}
	return NewStore(path, c), nil
}

func CodecForPath(path string) (animals.Codec, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return nil, fmt.Errorf("file: cannot infer format of %q without extension", path)
	}
	return codec.ByName(ext)
}

// Load: un archivo inexistente es FileOperationError; contenido inválido es InvalidDataError.
func (s *Store) Load(ctx context.Context) (animals.Snapshot, error) {
	data, err := s.readAll()
	if err != nil {
		return animals.Snapshot{}, err
	}
	return s.codec.Decode(data)
}

func (s *Store) readAll() ([]byte, error) {
	f, err := os.Open(s.path)
	if err != nil {
		// la causa conserva fs.ErrNotExist para errors.Is
		return nil, &animals.FileOperationError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &animals.FileOperationError{Op: "read", Path: s.path, Err: err}
	}
	return data, nil
}

// Save trunca y escribe. Si falla a mitad el archivo puede quedar incompleto.
func (s *Store) Save(ctx context.Context, snap animals.Snapshot) (err error) {
	data, err := s.codec.Encode(snap)
	if err != nil {
		return &animals.FileOperationError{Op: "encode " + s.codec.Name(), Path: s.path, Err: err}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return &animals.FileOperationError{Op: "create", Path: s.path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &animals.FileOperationError{Op: "close", Path: s.path, Err: cerr}
		}
	}()

	if _, err := f.Write(data); err != nil {
		return &animals.FileOperationError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
