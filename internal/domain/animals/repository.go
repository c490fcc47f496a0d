package animals

import "context"

// SnapshotStore persiste y recupera un snapshot completo del registro.
type SnapshotStore interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// Codec traduce un snapshot a un formato de documento y de vuelta.
type Codec interface {
	Name() string
	Encode(s Snapshot) ([]byte, error)
	Decode(data []byte) (Snapshot, error)
}
