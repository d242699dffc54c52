package repository

import (
	"context"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAircraftRepository implements the AircraftRepository interface
type GormAircraftRepository struct {
	db *gorm.DB
}

// NewGormAircraftRepository creates a new GORM aircraft repository
func NewGormAircraftRepository(db *gorm.DB) repository.AircraftRepository {
	return &GormAircraftRepository{
		db: db,
	}
}

// FleetAircraft GORM model for database mapping
type FleetAircraft struct {
	ID             uint           `gorm:"primaryKey"`
	Registration   string         `gorm:"column:registration;unique"`
	Type           string         `gorm:"column:type"`
	Status         string         `gorm:"column:status"`
	CurrentHours   float64        `gorm:"column:current_hours"`
	NextCheckHours float64        `gorm:"column:next_check_hours"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the default table name
func (FleetAircraft) TableName() string {
	return "m_fleet_aircraft"
}

// List returns the whole fleet ordered by registration
func (r *GormAircraftRepository) List(ctx context.Context) ([]entity.Aircraft, error) {
	var rows []FleetAircraft
	result := r.db.WithContext(ctx).Order("registration").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	aircraft := make([]entity.Aircraft, 0, len(rows))
	for _, row := range rows {
		aircraft = append(aircraft, toAircraftEntity(row))
	}
	return aircraft, nil
}

// GetByRegistration finds one aircraft by registration
func (r *GormAircraftRepository) GetByRegistration(ctx context.Context, registration string) (*entity.Aircraft, error) {
	var row FleetAircraft
	result := r.db.WithContext(ctx).Where("registration = ?", registration).First(&row)
	if result.Error != nil {
		return nil, result.Error
	}

	ac := toAircraftEntity(row)
	return &ac, nil
}

func toAircraftEntity(row FleetAircraft) entity.Aircraft {
	return entity.Aircraft{
		ID:             row.ID,
		Registration:   row.Registration,
		Type:           row.Type,
		Status:         entity.AircraftStatus(row.Status),
		CurrentHours:   row.CurrentHours,
		NextCheckHours: row.NextCheckHours,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		DeletedAt:      row.DeletedAt,
	}
}
