package storage

import "context"

// Record is one persisted respawn entry. Timestamps are RFC3339Nano
// strings so the document round-trips exactly, zone offset included.
type Record struct {
	KilledAt     string `json:"killedAt"`
	SpawnsAt     string `json:"spawnsAt"`
	NotifyTarget int64  `json:"notifyTarget"`
	PreAlerted   bool   `json:"preAlerted"`
}

// Document is the full persisted state, keyed by tenant id then boss
// name.
type Document map[string]map[string]Record

// Adapter snapshots the whole schedule to durable storage and reads it
// back at startup. Implementations are best-effort on write: the
// in-memory schedule stays authoritative when a save fails.
type Adapter interface {
	SaveAll(ctx context.Context, doc Document) error
	LoadAll(ctx context.Context) (Document, error)
	Close() error
}

// Config selects and locates the storage backend.
//
// Driver values:
//   - "file" (default): single JSON document at Path
//   - "sqlite": SQLite database file at Path
type Config struct {
	Driver string
	Path   string
}
