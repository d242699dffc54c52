package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

// SyncReconciler converts a staging store's working copy into a minimal
// atomic write-set against the persisted baseline and applies it.
type SyncReconciler struct {
	flightRepo repository.FlightRepository
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewSyncReconciler creates a new sync reconciler
func NewSyncReconciler(flightRepo repository.FlightRepository, m *metrics.Metrics, logger logger.Logger) *SyncReconciler {
	return &SyncReconciler{
		flightRepo: flightRepo,
		metrics:    m,
		logger:     logger,
	}
}

// BuildSyncSet assigns every working flight its zero-based position as order
// and partitions the sequence: provisional flights become creates (their
// local id is stripped, persistence assigns the real one), persisted flights
// become full-field updates, and the removal set becomes deletes. Orders are
// stamped on the write-set only; the working copy stays untouched until the
// commit succeeds. The second return value lists the provisional ids behind
// the creates, in order, so their persisted ids can be adopted afterwards.
func (r *SyncReconciler) BuildSyncSet(store *StagingStore) (entity.SyncSet, []string) {
	var set entity.SyncSet
	var provisionalIDs []string
	for i, f := range store.Flights() {
		order := i
		f.Order = &order
		if f.IsProvisional() {
			provisionalIDs = append(provisionalIDs, f.ID)
			f.ID = ""
			set.Creates = append(set.Creates, f)
			continue
		}
		set.Updates = append(set.Updates, entity.FlightUpdate{ID: f.ID, Patch: f})
	}
	set.Deletes = store.PendingRemovals()
	return set, provisionalIDs
}

// Sync builds the write-set and commits it as one atomic unit. On success the
// created flights adopt their persisted ids and the store returns to clean
// (unless edits arrived while the commit was
// outstanding, in which case they carry into the next sync's diff). On
// failure the working copy and dirty state are left untouched so the
// dispatcher can retry without re-entering anything.
//
// mu guards the store; it is released while the commit is on the wire so
// edits are never serialized behind an in-flight sync.
func (r *SyncReconciler) Sync(ctx context.Context, store *StagingStore, mu sync.Locker) (entity.SyncSet, error) {
	mu.Lock()
	set, provisionalIDs := r.BuildSyncSet(store)
	generation := store.generation
	mu.Unlock()

	start := time.Now()
	createdIDs, err := r.flightRepo.CommitScheduleSync(ctx, set)
	if err != nil {
		r.metrics.SyncsFailed.Inc()
		r.metrics.ErrorsCount.WithLabelValues("sync_commit").Inc()
		r.logger.Error("Schedule sync failed",
			"creates", len(set.Creates),
			"updates", len(set.Updates),
			"deletes", len(set.Deletes),
			"error", err)
		return set, fmt.Errorf("commit schedule sync: %w", err)
	}
	r.metrics.SyncDuration.Observe(time.Since(start).Seconds())
	r.metrics.SyncsCommitted.Inc()

	mu.Lock()
	store.completeSync(set, provisionalIDs, createdIDs, generation)
	mu.Unlock()

	r.logger.Info("Schedule sync committed",
		"creates", len(set.Creates),
		"updates", len(set.Updates),
		"deletes", len(set.Deletes))
	return set, nil
}
