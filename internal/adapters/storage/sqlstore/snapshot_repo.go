// Package sqlstore guarda snapshots en una base SQL vía database/sql.
// El mismo SQL corre en Postgres (pgx) y en SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pet-clinic-registry/internal/domain/animals"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS animals (
	position      INTEGER NOT NULL,
	animal_id     INTEGER PRIMARY KEY,
	type          TEXT NOT NULL,
	name          TEXT NOT NULL,
	age           INTEGER NOT NULL,
	breed         TEXT NOT NULL,
	owner         TEXT NOT NULL,
	health_status TEXT NOT NULL,
	dog_size      TEXT,
	is_indoor     BOOLEAN,
	wingspan      DOUBLE PRECISION
)`, `
CREATE TABLE IF NOT EXISTS snapshot_metadata (
	singleton     BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	snapshot_id   TEXT NOT NULL,
	saved_at      TEXT NOT NULL,
	total_animals INTEGER NOT NULL
)`,
}

// SnapshotStore guarda el registro completo en la tabla animals, en orden.
// name identifica al backend en los errores ("postgres", "sqlite").
type SnapshotStore struct {
	db   *sql.DB
	name string
}

func NewSnapshotStore(db *sql.DB, name string) *SnapshotStore {
	return &SnapshotStore{db: db, name: name}
}

func (r *SnapshotStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return r.dbError("create schema", err)
		}
	}
	return nil
}

// Save reemplaza el contenido dentro de una transacción: o queda todo o nada.
func (r *SnapshotStore) Save(ctx context.Context, s animals.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.dbError("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM animals`); err != nil {
		return r.dbError("delete animals", err)
	}

	for i, a := range s.Animals {
		b := a.Info()
		var (
			size     sql.NullString
			indoor   sql.NullBool
			wingspan sql.NullFloat64
		)
		switch v := a.(type) {
		case animals.Dog:
			size = sql.NullString{String: string(v.Size), Valid: true}
		case animals.Cat:
			indoor = sql.NullBool{Bool: v.Indoor, Valid: true}
		case animals.Bird:
			wingspan = sql.NullFloat64{Float64: v.Wingspan, Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO animals (
				position, animal_id, type,
				name, age, breed, owner, health_status,
				dog_size, is_indoor, wingspan
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			i,
			b.ID,
			string(animals.KindOf(a)),
			b.Name,
			b.Age,
			b.Breed,
			b.Owner,
			b.HealthStatus,
			size,
			indoor,
			wingspan,
		)
		if err != nil {
			return r.dbError(fmt.Sprintf("insert animal %d", b.ID), err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_metadata (singleton, snapshot_id, saved_at, total_animals)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (singleton) DO UPDATE
		SET snapshot_id = EXCLUDED.snapshot_id,
			saved_at = EXCLUDED.saved_at,
			total_animals = EXCLUDED.total_animals
	`, s.Metadata.SnapshotID, s.Metadata.SavedAt.UTC().Format(time.RFC3339Nano), s.Metadata.TotalAnimals)
	if err != nil {
		return r.dbError("upsert metadata", err)
	}

	if err := tx.Commit(); err != nil {
		return r.dbError("commit", err)
	}
	return nil
}

// Load pasa cada fila por el constructor de su variante; una fila inválida aborta la carga.
func (r *SnapshotStore) Load(ctx context.Context) (animals.Snapshot, error) {
	var (
		snap    animals.Snapshot
		savedAt string
	)

	row := r.db.QueryRowContext(ctx, `
		SELECT snapshot_id, saved_at, total_animals
		FROM snapshot_metadata
		WHERE singleton
	`)
	err := row.Scan(&snap.Metadata.SnapshotID, &savedAt, &snap.Metadata.TotalAnimals)
	if err != nil && err != sql.ErrNoRows {
		return animals.Snapshot{}, r.dbError("select metadata", err)
	}
	// la metadata es informativa: una fecha ilegible queda en cero
	if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(savedAt)); err == nil {
		snap.Metadata.SavedAt = t
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			animal_id, type,
			name, age, breed, owner, health_status,
			dog_size, is_indoor, wingspan
		FROM animals
		ORDER BY position ASC
	`)
	if err != nil {
		return animals.Snapshot{}, r.dbError("select animals", err)
	}
	defer rows.Close()

	snap.Animals = make([]animals.Animal, 0)
	for rows.Next() {
		var (
			b        animals.Base
			kind     string
			size     sql.NullString
			indoor   sql.NullBool
			wingspan sql.NullFloat64
		)
		if err := rows.Scan(
			&b.ID,
			&kind,
			&b.Name,
			&b.Age,
			&b.Breed,
			&b.Owner,
			&b.HealthStatus,
			&size,
			&indoor,
			&wingspan,
		); err != nil {
			return animals.Snapshot{}, r.dbError("scan animal", err)
		}

		a, err := fromRow(kind, b, size, indoor, wingspan)
		if err != nil {
			return animals.Snapshot{}, fmt.Errorf("animal %d: %w", b.ID, err)
		}
		snap.Animals = append(snap.Animals, a)
	}
	if err := rows.Err(); err != nil {
		return animals.Snapshot{}, r.dbError("iterate animals", err)
	}

	return snap, nil
}

func fromRow(kind string, b animals.Base, size sql.NullString, indoor sql.NullBool, wingspan sql.NullFloat64) (animals.Animal, error) {
	k, err := animals.ParseKind(kind)
	if err != nil {
		return nil, err
	}

	var attrs animals.VariantAttrs
	if size.Valid {
		s := animals.Size(size.String)
		attrs.Size = &s
	}
	if indoor.Valid {
		attrs.Indoor = &indoor.Bool
	}
	if wingspan.Valid {
		attrs.Wingspan = &wingspan.Float64
	}
	return animals.New(k, b, attrs)
}

func (r *SnapshotStore) dbError(op string, err error) error {
	return &animals.FileOperationError{Op: op, Path: r.name, Err: err}
}
