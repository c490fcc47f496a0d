package memory

import (
	"context"
	"errors"
	"sync"

	"pet-clinic-registry/internal/domain/animals"
)

var errNoSnapshot = errors.New("no snapshot saved yet")

// SnapshotStore guarda el último snapshot en memoria del proceso.
// Sirve como backend "memory" del shell y como doble en tests.
type SnapshotStore struct {
	mu    sync.RWMutex
	snap  animals.Snapshot
	saved bool
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Save(ctx context.Context, snap animals.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = animals.Snapshot{
		Metadata: snap.Metadata,
		Animals:  append([]animals.Animal(nil), snap.Animals...),
	}
	s.saved = true
	return nil
}

// Load sin un Save previo se comporta como un archivo inexistente.
func (s *SnapshotStore) Load(ctx context.Context) (animals.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return animals.Snapshot{}, &animals.FileOperationError{Op: "load", Path: "memory", Err: errNoSnapshot}
	}
	return animals.Snapshot{
		Metadata: s.snap.Metadata,
		Animals:  append([]animals.Animal(nil), s.snap.Animals...),
	}, nil
}
