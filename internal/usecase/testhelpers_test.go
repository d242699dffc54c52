package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

// Shared across the package's tests; promauto registers globally so metrics
// are created once.
var (
	testMetrics = metrics.NewMetrics("flightdesk_test")
	testLogger  = logger.NewNop()
)

type mockFlightRepo struct {
	mock.Mock
}

func (m *mockFlightRepo) FindByDate(ctx context.Context, date string) ([]entity.Flight, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Flight), args.Error(1)
}

func (m *mockFlightRepo) CommitScheduleSync(ctx context.Context, set entity.SyncSet) ([]string, error) {
	args := m.Called(ctx, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFlightRepo) WatchChanges(ctx context.Context) (<-chan struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan struct{}), args.Error(1)
}

type mockComplianceRepo struct {
	mock.Mock
}

func (m *mockComplianceRepo) FindByCrewCode(ctx context.Context, crewCode string) ([]entity.ComplianceRecord, error) {
	args := m.Called(ctx, crewCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ComplianceRecord), args.Error(1)
}

func persistedFlight(id, date, number, route, registration string) entity.Flight {
	return entity.Flight{
		ID:                   id,
		Date:                 date,
		FlightNumber:         number,
		Route:                route,
		AircraftRegistration: registration,
		Status:               entity.StatusScheduled,
	}
}
