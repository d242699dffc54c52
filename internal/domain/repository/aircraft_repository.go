package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// AircraftRepository defines read-only access to the fleet reference data
type AircraftRepository interface {
	List(ctx context.Context) ([]entity.Aircraft, error)
	GetByRegistration(ctx context.Context, registration string) (*entity.Aircraft, error)
}
