package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jmjm940628-pixel/BossTimerBot/internal/schedule"
)

// Notifier sends one alert text to a resolved destination. Failures
// are reported, never panicked; the record is retried next tick.
type Notifier interface {
	Send(dest int64, text string) error
}

// DestinationResolver maps a stored notify target to a live
// destination. Not-ok means the destination is currently unreachable
// and the record should be skipped this tick.
type DestinationResolver interface {
	Resolve(target int64) (int64, bool)
}

// Scheduler polls the schedule and fires pre-alerts and spawn alerts.
// A single poll interval bounds alert latency; there are no per-record
// timers to clean up when an event is deleted early.
type Scheduler struct {
	store    *schedule.Store
	log      *zap.Logger
	notifier Notifier
	resolver DestinationResolver
	interval time.Duration
	window   time.Duration

	now func() time.Time
}

func New(store *schedule.Store, log *zap.Logger, n Notifier, r DestinationResolver, interval, window time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		log:      log,
		notifier: n,
		resolver: r,
		interval: interval,
		window:   window,
		now:      time.Now,
	}
}

// Run polls until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick walks a snapshot of every tenant's events and applies at most
// one transition per record: pre-alert first, then spawn alert with
// retirement. Times are truncated to the minute so a boundary hit is
// treated as due. When the pre-alert window was missed entirely, only
// the spawn alert fires; the pre-alert is best-effort. Mutations carry
// the snapshot's spawn time, so a re-registration landing during the
// send is never clobbered by the stale snapshot.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().Truncate(time.Minute)
	changed := false

	for _, tenant := range s.store.Tenants() {
		for _, ev := range s.store.List(tenant) {
			dest, ok := s.resolver.Resolve(ev.NotifyTarget)
			if !ok {
				s.log.Debug("destination unavailable, retrying next tick",
					zap.String("tenant", tenant), zap.String("boss", ev.Name))
				continue
			}

			spawn := ev.SpawnsAt.Truncate(time.Minute)
			preAt := spawn.Add(-s.window)

			if !ev.PreAlerted && !now.Before(preAt) && now.Before(spawn) {
				if err := s.notifier.Send(dest, preAlertText(ev.Name, s.window)); err != nil {
					s.log.Warn("pre-alert send failed",
						zap.String("tenant", tenant), zap.String("boss", ev.Name), zap.Error(err))
					continue
				}
				if s.store.MarkPreAlerted(tenant, ev.Name, ev.SpawnsAt) {
					changed = true
				}
			} else if !now.Before(spawn) {
				if err := s.notifier.Send(dest, spawnText(ev.Name)); err != nil {
					s.log.Warn("spawn alert send failed",
						zap.String("tenant", tenant), zap.String("boss", ev.Name), zap.Error(err))
					continue
				}
				if s.store.Retire(tenant, ev.Name, ev.SpawnsAt) {
					changed = true
					s.log.Info("boss retired after spawn alert",
						zap.String("tenant", tenant), zap.String("boss", ev.Name))
				}
			}
		}
	}

	if changed {
		s.store.Persist(ctx)
	}
}

func preAlertText(name string, window time.Duration) string {
	return fmt.Sprintf("🔔 %s spawns in %d min!", name, int(window.Minutes()))
}

func spawnText(name string) string {
	return fmt.Sprintf("⚠️ %s has spawned!", name)
}
