package domain

import "time"

// Event is one tracked respawn: a boss killed at KilledAt that spawns
// again at SpawnsAt. SpawnsAt is always KilledAt plus the catalog
// cycle; it is never adjusted independently.
type Event struct {
	Name         string
	KilledAt     time.Time
	SpawnsAt     time.Time
	NotifyTarget int64
	PreAlerted   bool
}
