package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// ComplianceRepository defines the interface for crew document lookups
type ComplianceRepository interface {
	FindByCrewCode(ctx context.Context, crewCode string) ([]entity.ComplianceRecord, error)
}
