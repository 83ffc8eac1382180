package worker

import (
	"context"
	"time"

	"github.com/brickandmorty/ticketbooker/internal/entity"
	"github.com/brickandmorty/ticketbooker/internal/service"

	"github.com/sirupsen/logrus"
)

// SnapshotWarmer periodically recomputes the availability snapshot for the
// current day so the cache is warm when the first request of the day
// arrives. It only touches view data; booking writes go nowhere near it.
type SnapshotWarmer struct {
	availability service.AvailabilityService
	windowDays   int
	interval     time.Duration
}

func NewSnapshotWarmer(availability service.AvailabilityService, windowDays int, interval time.Duration) *SnapshotWarmer {
	return &SnapshotWarmer{
		availability: availability,
		windowDays:   windowDays,
		interval:     interval,
	}
}

func (w *SnapshotWarmer) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Snapshot warmer started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Snapshot warmer stopped")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *SnapshotWarmer) warm(ctx context.Context) {
	snapshot, err := w.availability.Recompute(ctx, entity.Today(), w.windowDays)
	if err != nil {
		logrus.Errorf("Snapshot warmup failed: %v", err)
		return
	}

	logrus.Debugf("Snapshot warmed for %s: %d free / %d booked, %d fully booked days",
		snapshot.AsOf, snapshot.FreeCount, snapshot.BookedCount, len(snapshot.FullyBookedDates))
}
