package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FlightStatus is the operational status of a scheduled flight
type FlightStatus string

const (
	StatusScheduled FlightStatus = "Scheduled"
	StatusOutbound  FlightStatus = "Outbound"
	StatusInbound   FlightStatus = "Inbound"
	StatusOnGround  FlightStatus = "On Ground"
	StatusDelayed   FlightStatus = "Delayed"
	StatusCancelled FlightStatus = "Cancelled"
	StatusCompleted FlightStatus = "Completed"
)

// ProvisionalIDPrefix marks flight ids that were generated locally and have
// not been persisted yet. The store assigns the real id at sync time.
const ProvisionalIDPrefix = "new-"

// Flight represents one scheduled operation between two points
type Flight struct {
	ID                   string       `json:"id" bson:"_id,omitempty"`
	Date                 string       `json:"date" bson:"date"` // YYYY-MM-DD
	FlightNumber         string       `json:"flightNumber" bson:"flightNumber"`
	Route                string       `json:"route" bson:"route"` // "OGL-KAI", direction-significant
	AircraftRegistration string       `json:"aircraftRegistration" bson:"aircraftRegistration"`
	AircraftType         string       `json:"aircraftType" bson:"aircraftType"`
	ETD                  string       `json:"etd" bson:"etd"` // local "HH:MM"
	FlightTime           float64      `json:"flightTime" bson:"flightTime"` // decimal hours
	CommercialTime       string       `json:"commercialTime" bson:"commercialTime"` // free-form "H:MM"
	PIC                  string       `json:"pic" bson:"pic"`
	SIC                  string       `json:"sic,omitempty" bson:"sic,omitempty"`
	Customer             string       `json:"customer" bson:"customer"`
	CustomerID           string       `json:"customerId" bson:"customerId"`
	Status               FlightStatus `json:"status" bson:"status"`
	Notes                string       `json:"notes" bson:"notes"`
	Order                *int         `json:"order,omitempty" bson:"order,omitempty"`
	ParentID             string       `json:"parentId,omitempty" bson:"parentId,omitempty"`
	CreatedAt            time.Time    `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt            time.Time    `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// IsProvisional reports whether the flight has a locally generated id
func (f *Flight) IsProvisional() bool {
	return strings.HasPrefix(f.ID, ProvisionalIDPrefix)
}

// NewProvisionalID generates a fresh provisional flight id
func NewProvisionalID() string {
	return ProvisionalIDPrefix + uuid.NewString()
}
