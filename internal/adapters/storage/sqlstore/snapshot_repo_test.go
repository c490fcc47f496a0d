package sqlstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pet-clinic-registry/internal/adapters/storage/postgres"
	"pet-clinic-registry/internal/adapters/storage/sqlite"
	"pet-clinic-registry/internal/domain/animals"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, db *sql.DB, name string) *SnapshotStore {
	t.Helper()
	t.Cleanup(func() { _ = db.Close() })
	s := NewSnapshotStore(db, name)
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func sqliteStore(t *testing.T) *SnapshotStore {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	return newStore(t, db, "sqlite")
}

// Postgres necesita una base real: PETCLINIC_TEST_DSN=postgres://... go test ./...
func postgresStore(t *testing.T) *SnapshotStore {
	t.Helper()
	dsn := os.Getenv("PETCLINIC_TEST_DSN")
	if dsn == "" {
		t.Skip("PETCLINIC_TEST_DSN not set")
	}
	db, err := postgres.Open(dsn)
	require.NoError(t, err)
	return newStore(t, db, "postgres")
}

func sample(t *testing.T) animals.Snapshot {
	t.Helper()
	dog, err := animals.NewDog(animals.Base{ID: 7, Name: "Rex", Age: 3, Breed: "Lab", Owner: "Ann"}, animals.SizeSmall)
	require.NoError(t, err)
	cat, err := animals.NewCat(animals.Base{ID: 2, Name: "Tom", Age: 5, Breed: "Siamese", Owner: "Bob"}, false)
	require.NoError(t, err)
	bird, err := animals.NewBird(animals.Base{ID: 4, Name: "Kiwi", Age: 1, Breed: "Parrot", Owner: "Al"}, 15.5)
	require.NoError(t, err)

	return animals.Snapshot{
		Metadata: animals.Metadata{
			SavedAt:      time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC),
			TotalAnimals: 3,
			SnapshotID:   "test-snapshot",
		},
		Animals: []animals.Animal{dog, cat, bird},
	}
}

func testSaveLoad(t *testing.T, s *SnapshotStore) {
	ctx := context.Background()
	want := sample(t)
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Animals, got.Animals)
	require.Equal(t, "test-snapshot", got.Metadata.SnapshotID)
	require.Equal(t, 3, got.Metadata.TotalAnimals)
	require.True(t, want.Metadata.SavedAt.Equal(got.Metadata.SavedAt))

	// un segundo Save reemplaza todo
	require.NoError(t, s.Save(ctx, animals.Snapshot{Metadata: animals.Metadata{SnapshotID: "empty"}}))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got.Animals)
	require.Equal(t, "empty", got.Metadata.SnapshotID)
}

func TestSnapshotStore_SQLite(t *testing.T) {
	testSaveLoad(t, sqliteStore(t))
}

func TestSnapshotStore_Postgres(t *testing.T) {
	testSaveLoad(t, postgresStore(t))
}

func TestSnapshotStore_LoadEmptyDatabase(t *testing.T) {
	got, err := sqliteStore(t).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got.Animals)
	require.True(t, got.Metadata.SavedAt.IsZero())
}

func TestSnapshotStore_InvalidRowAbortsLoad(t *testing.T) {
	s := sqliteStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sample(t)))

	_, err := s.db.ExecContext(ctx, `UPDATE animals SET dog_size = 'Huge' WHERE animal_id = 7`)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.True(t, animals.IsInvalidData(err), "got %v", err)
}

func TestSnapshotStore_DuplicateIDRollsBack(t *testing.T) {
	s := sqliteStore(t)
	ctx := context.Background()
	want := sample(t)
	require.NoError(t, s.Save(ctx, want))

	bad := sample(t)
	bad.Animals = append(bad.Animals, bad.Animals[0])
	err := s.Save(ctx, bad)
	require.True(t, animals.IsFileOperation(err), "got %v", err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Animals, got.Animals)
}

func TestSQLite_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.db")
	db, err := sqlite.Open(path)
	require.NoError(t, err)
	s := newStore(t, db, "sqlite")
	require.NoError(t, s.Save(context.Background(), sample(t)))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestPostgres_OpenInvalidDSN(t *testing.T) {
	_, err := postgres.Open("postgres://invalid host:bad/db")
	require.Error(t, err)
}
