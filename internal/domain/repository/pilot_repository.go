package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// PilotRepository defines read-only access to the crew roster
type PilotRepository interface {
	List(ctx context.Context) ([]entity.Pilot, error)
	GetByCode(ctx context.Context, code string) (*entity.Pilot, error)
}
