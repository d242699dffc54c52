package usecase

import (
	"fmt"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/utils"
)

// DefaultTurnaroundMinutes is the ground-time buffer added between a flight's
// arrival and the ETD of its derived return leg.
const DefaultTurnaroundMinutes = 30

// Deriver computes new flight records from a source flight. All operations
// are pure: the source is never mutated and derivation never fails — malformed
// inputs degrade to a safe copy instead.
type Deriver struct {
	turnaroundMinutes int
}

// NewDeriver creates a deriver with the given turnaround buffer in minutes
func NewDeriver(turnaroundMinutes int) *Deriver {
	if turnaroundMinutes <= 0 {
		turnaroundMinutes = DefaultTurnaroundMinutes
	}
	return &Deriver{turnaroundMinutes: turnaroundMinutes}
}

// ContinuationSegment derives the next leg of a multi-stop itinerary. The new
// leg departs from the source's destination with the destination left open,
// keeps the crew and aircraft, and clears the timing and customer fields.
func (d *Deriver) ContinuationSegment(source entity.Flight) entity.Flight {
	origin, destination, hasSeparator := utils.SplitRoute(source.Route)

	var route string
	if hasSeparator && destination != "" {
		route = utils.JoinRoute(destination, "")
	} else if origin != "" {
		route = utils.JoinRoute(origin, "")
	}

	return entity.Flight{
		ID:                   entity.NewProvisionalID(),
		Date:                 source.Date,
		FlightNumber:         utils.IncrementFlightNumber(source.FlightNumber),
		Route:                route,
		AircraftRegistration: source.AircraftRegistration,
		AircraftType:         source.AircraftType,
		PIC:                  source.PIC,
		SIC:                  source.SIC,
		Status:               entity.StatusScheduled,
		ParentID:             chainRoot(source),
	}
}

// ReturnLeg derives the reversed trip of the source flight. The route is
// flipped, the ETD is offset by the source's flight time plus the turnaround
// buffer, and the customer carries over.
func (d *Deriver) ReturnLeg(source entity.Flight) entity.Flight {
	derived := entity.Flight{
		ID:                   entity.NewProvisionalID(),
		Date:                 source.Date,
		FlightNumber:         utils.IncrementFlightNumber(source.FlightNumber),
		Route:                utils.ReverseRoute(source.Route),
		AircraftRegistration: source.AircraftRegistration,
		AircraftType:         source.AircraftType,
		FlightTime:           source.FlightTime,
		CommercialTime:       source.CommercialTime,
		PIC:                  source.PIC,
		SIC:                  source.SIC,
		Customer:             source.Customer,
		CustomerID:           source.CustomerID,
		Status:               entity.StatusScheduled,
		Notes:                fmt.Sprintf("Return leg of %s", source.FlightNumber),
		ParentID:             chainRoot(source),
	}

	if source.ETD != "" {
		offset := utils.HoursToMinutes(source.FlightTime) + d.turnaroundMinutes
		derived.ETD = utils.AddClockMinutes(source.ETD, offset)
	}

	return derived
}

// chainRoot flattens derivation chains to one level: every derived flight
// points at the chain's root, never at an intermediate segment.
func chainRoot(source entity.Flight) string {
	if source.ParentID != "" {
		return source.ParentID
	}
	return source.ID
}
