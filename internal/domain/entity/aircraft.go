package entity

import (
	"time"

	"gorm.io/gorm"
)

// AircraftStatus is the fleet availability state of an aircraft
type AircraftStatus string

const (
	AircraftActive      AircraftStatus = "Active"
	AircraftMaintenance AircraftStatus = "Maintenance"
	AircraftAOG         AircraftStatus = "AOG"
)

// Aircraft represents one fleet aircraft as seen by scheduling. Owned by
// fleet management; read-only reference data here.
type Aircraft struct {
	ID             uint
	Registration   string
	Type           string
	Status         AircraftStatus
	CurrentHours   float64
	NextCheckHours float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt
}
