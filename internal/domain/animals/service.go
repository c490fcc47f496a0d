package animals

import (
	"context"
	"time"

	"pet-clinic-registry/internal/platform/logger"

	"github.com/google/uuid"
)

// ShellIDBase es la convención de ids del shell interactivo: ShellIDBase + cantidad actual.
// Es independiente del contador del Registry.
const ShellIDBase = 1000

type Service struct {
	reg   *Registry
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

func NewService(reg *Registry, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		reg:   reg,
		log:   log.With(map[string]any{"component": "animals"}),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Register crea un animal con el id del shell y lo agrega.
func (s *Service) Register(kind Kind, b Base, attrs VariantAttrs) (Animal, error) {
	b.ID = ShellIDBase + s.reg.Len()

	a, err := New(kind, b, attrs)
	if err != nil {
		return nil, err
	}
	if err := s.Add(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Add(a Animal) error {
	if err := s.reg.Add(a); err != nil {
		s.log.Warn("add rejected", map[string]any{"err": err.Error()})
		return err
	}
	s.log.Info("animal added", map[string]any{"id": a.Info().ID, "type": string(KindOf(a))})
	return nil
}

func (s *Service) Remove(id int) error {
	if err := s.reg.Remove(id); err != nil {
		return err
	}
	s.log.Info("animal removed", map[string]any{"id": id})
	return nil
}

func (s *Service) FindByID(id int) (Animal, bool) { return s.reg.FindByID(id) }

func (s *Service) FindByOwner(owner string) []Animal { return s.reg.FindByOwner(owner) }

func (s *Service) List() []Animal { return s.reg.ListAll() }

// Save arma el snapshot actual y lo entrega al store.
func (s *Service) Save(ctx context.Context, store SnapshotStore) (Snapshot, error) {
	items := s.reg.ListAll()
	snap := Snapshot{
		Metadata: Metadata{
			SavedAt:      s.now(),
			TotalAnimals: len(items),
			SnapshotID:   s.newID(),
		},
		Animals: items,
	}

	if err := store.Save(ctx, snap); err != nil {
		s.log.Error("save failed", map[string]any{"err": err.Error()})
		return Snapshot{}, err
	}
	s.log.Info("snapshot saved", map[string]any{
		"snapshot_id": snap.Metadata.SnapshotID,
		"total":       snap.Metadata.TotalAnimals,
	})
	return snap, nil
}

// Load reemplaza el registro con lo que devuelva el store.
// Ante cualquier error el registro queda como estaba.
func (s *Service) Load(ctx context.Context, store SnapshotStore) (Snapshot, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		s.log.Error("load failed", map[string]any{"err": err.Error()})
		return Snapshot{}, err
	}
	if err := s.reg.LoadSnapshot(snap.Animals); err != nil {
		s.log.Error("load rejected", map[string]any{"err": err.Error()})
		return Snapshot{}, err
	}

	s.log.Info("snapshot loaded", map[string]any{
		"snapshot_id": snap.Metadata.SnapshotID,
		"total":       len(snap.Animals),
	})
	return snap, nil
}
