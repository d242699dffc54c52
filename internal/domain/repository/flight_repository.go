package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// FlightRepository defines the persistence boundary for scheduled flights
type FlightRepository interface {
	// FindByDate returns the persisted baseline for one date
	FindByDate(ctx context.Context, date string) ([]entity.Flight, error)

	// CommitScheduleSync applies the write-set atomically and returns the
	// persisted ids assigned to the creates, in order. No reader may observe
	// a partial result; on error nothing has been applied.
	CommitScheduleSync(ctx context.Context, set entity.SyncSet) ([]string, error)

	// WatchChanges delivers a tick whenever the flights collection changes,
	// so subscribers can re-read the dates they care about. The channel is
	// closed when ctx is cancelled.
	WatchChanges(ctx context.Context) (<-chan struct{}, error)
}
