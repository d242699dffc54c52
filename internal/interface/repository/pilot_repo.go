package repository

import (
	"context"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormPilotRepository implements the PilotRepository interface
type GormPilotRepository struct {
	db *gorm.DB
}

// NewGormPilotRepository creates a new GORM pilot repository
func NewGormPilotRepository(db *gorm.DB) repository.PilotRepository {
	return &GormPilotRepository{
		db: db,
	}
}

// RosterPilot GORM model for database mapping
type RosterPilot struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	Role      string         `gorm:"column:role"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (RosterPilot) TableName() string {
	return "m_pilots"
}

// List returns the crew roster ordered by code
func (r *GormPilotRepository) List(ctx context.Context) ([]entity.Pilot, error) {
	var rows []RosterPilot
	result := r.db.WithContext(ctx).Order("code").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	pilots := make([]entity.Pilot, 0, len(rows))
	for _, row := range rows {
		pilots = append(pilots, toPilotEntity(row))
	}
	return pilots, nil
}

// GetByCode finds one crew member by code
func (r *GormPilotRepository) GetByCode(ctx context.Context, code string) (*entity.Pilot, error) {
	var row RosterPilot
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&row)
	if result.Error != nil {
		return nil, result.Error
	}

	pilot := toPilotEntity(row)
	return &pilot, nil
}

func toPilotEntity(row RosterPilot) entity.Pilot {
	return entity.Pilot{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		DeletedAt: row.DeletedAt,
	}
}
