package schedule

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jmjm940628-pixel/BossTimerBot/internal/domain"
	"github.com/jmjm940628-pixel/BossTimerBot/internal/storage"
)

var ErrNotFound = errors.New("boss is not tracked")

// Store is the authoritative in-memory schedule: tenant id -> boss
// name -> event. All mutation goes through its methods under one
// mutex, so command handlers and the scheduler loop never interleave
// on a record. Persistence is a best-effort snapshot taken after the
// mutation; a failed save is logged and the in-memory state stands.
type Store struct {
	mu      sync.Mutex
	events  map[string]map[string]*domain.Event
	adapter storage.Adapter
	log     *zap.Logger
}

func New(adapter storage.Adapter, log *zap.Logger) *Store {
	return &Store{
		events:  make(map[string]map[string]*domain.Event),
		adapter: adapter,
		log:     log,
	}
}

// Load replaces the in-memory schedule with the persisted document.
// Records whose timestamps do not parse are skipped with a warning.
func (s *Store) Load(ctx context.Context) error {
	doc, err := s.adapter.LoadAll(ctx)
	if err != nil {
		return err
	}

	events := make(map[string]map[string]*domain.Event, len(doc))
	for tenant, entries := range doc {
		events[tenant] = make(map[string]*domain.Event, len(entries))
		for name, rec := range entries {
			killedAt, err := time.Parse(time.RFC3339Nano, rec.KilledAt)
			if err != nil {
				s.log.Warn("skipping record with bad kill time",
					zap.String("tenant", tenant), zap.String("boss", name), zap.Error(err))
				continue
			}
			spawnsAt, err := time.Parse(time.RFC3339Nano, rec.SpawnsAt)
			if err != nil {
				s.log.Warn("skipping record with bad spawn time",
					zap.String("tenant", tenant), zap.String("boss", name), zap.Error(err))
				continue
			}
			events[tenant][name] = &domain.Event{
				Name:         name,
				KilledAt:     killedAt,
				SpawnsAt:     spawnsAt,
				NotifyTarget: rec.NotifyTarget,
				PreAlerted:   rec.PreAlerted,
			}
		}
		if len(events[tenant]) == 0 {
			delete(events, tenant)
		}
	}

	s.mu.Lock()
	s.events = events
	count := 0
	for _, entries := range events {
		count += len(entries)
	}
	s.mu.Unlock()

	s.log.Info("schedule restored", zap.Int("events", count))
	return nil
}

// Register inserts or overwrites the tenant's record for ev.Name.
// Re-registration resets the pre-alert flag via the fresh event value.
func (s *Store) Register(ctx context.Context, tenant string, ev domain.Event) {
	s.mu.Lock()
	if s.events[tenant] == nil {
		s.events[tenant] = make(map[string]*domain.Event)
	}
	e := ev
	s.events[tenant][ev.Name] = &e
	doc := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, doc)
}

// Delete removes the record, or reports ErrNotFound.
func (s *Store) Delete(ctx context.Context, tenant, name string) error {
	s.mu.Lock()
	entries, ok := s.events[tenant]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if _, ok := entries[name]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(entries, name)
	if len(entries) == 0 {
		delete(s.events, tenant)
	}
	doc := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, doc)
	return nil
}

// List returns a copy of the tenant's events sorted by spawn time
// ascending. An unknown tenant yields an empty slice.
func (s *Store) List(tenant string) []domain.Event {
	s.mu.Lock()
	entries := s.events[tenant]
	out := make([]domain.Event, 0, len(entries))
	for _, ev := range entries {
		out = append(out, *ev)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SpawnsAt.Before(out[j].SpawnsAt) })
	return out
}

// Tenants returns the ids of all tenants with at least one record.
func (s *Store) Tenants() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for tenant := range s.events {
		out = append(out, tenant)
	}
	return out
}

// MarkPreAlerted sets the pre-alert flag and reports whether anything
// changed. A second call on the same record is a no-op, and a record
// whose spawn time no longer matches spawnsAt is left alone: the boss
// was re-registered between the caller's snapshot and now, and the
// fresh record owns its own alerts. The caller is responsible for
// persisting, so a scheduler tick writes one batched snapshot instead
// of one per record.
func (s *Store) MarkPreAlerted(tenant, name string, spawnsAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[tenant][name]
	if !ok || ev.PreAlerted || !ev.SpawnsAt.Equal(spawnsAt) {
		return false
	}
	ev.PreAlerted = true
	return true
}

// Retire removes a record after its final alert fired and reports
// whether it was removed. The spawnsAt guard and persistence contract
// match MarkPreAlerted.
func (s *Store) Retire(tenant, name string, spawnsAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.events[tenant]
	if !ok {
		return false
	}
	ev, ok := entries[name]
	if !ok || !ev.SpawnsAt.Equal(spawnsAt) {
		return false
	}
	delete(entries, name)
	if len(entries) == 0 {
		delete(s.events, tenant)
	}
	return true
}

// Persist writes the current schedule to storage once. Used by the
// scheduler after a tick that mutated any record.
func (s *Store) Persist(ctx context.Context) {
	s.mu.Lock()
	doc := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, doc)
}

// snapshotLocked serializes the schedule into a storage document.
// Callers must hold s.mu.
func (s *Store) snapshotLocked() storage.Document {
	doc := make(storage.Document, len(s.events))
	for tenant, entries := range s.events {
		doc[tenant] = make(map[string]storage.Record, len(entries))
		for name, ev := range entries {
			doc[tenant][name] = storage.Record{
				KilledAt:     ev.KilledAt.Format(time.RFC3339Nano),
				SpawnsAt:     ev.SpawnsAt.Format(time.RFC3339Nano),
				NotifyTarget: ev.NotifyTarget,
				PreAlerted:   ev.PreAlerted,
			}
		}
	}
	return doc
}

// save runs outside the lock so slow storage cannot stall the other
// access path. Failures are logged only.
func (s *Store) save(ctx context.Context, doc storage.Document) {
	if err := s.adapter.SaveAll(ctx, doc); err != nil {
		s.log.Error("schedule save failed", zap.Error(err))
	}
}
