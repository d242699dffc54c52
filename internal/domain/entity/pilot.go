package entity

import (
	"time"

	"gorm.io/gorm"
)

// Pilot represents one roster crew member, keyed by a unique short code
type Pilot struct {
	ID        uint
	Code      string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
