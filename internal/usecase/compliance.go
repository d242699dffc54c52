package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

// DutyLimitHours is the same-day cumulative flight-time threshold. Crossing
// it produces an advisory warning, never a hard block.
const DutyLimitHours = 8.0

const dateLayout = "2006-01-02"

// ValidationInput carries everything one validation pass needs. Flights is
// the working copy of the date being edited.
type ValidationInput struct {
	CrewCode          string
	Date              string
	CandidateDuration float64
	Flights           []entity.Flight
	ExcludeFlightID   string
}

// Validator runs the advisory compliance checks: same-day duty-time
// accumulation and safety-critical document currency.
type Validator struct {
	complianceRepo repository.ComplianceRepository
	metrics        *metrics.Metrics
	logger         logger.Logger
}

// NewValidator creates a new compliance validator
func NewValidator(complianceRepo repository.ComplianceRepository, m *metrics.Metrics, logger logger.Logger) *Validator {
	return &Validator{
		complianceRepo: complianceRepo,
		metrics:        m,
		logger:         logger,
	}
}

// CheckDutyPeriod sums flight time over all flights on the date where the
// crew code flies as PIC or SIC, excluding the flight being edited, then adds
// the candidate duration. A total strictly over the limit yields one warning.
func (v *Validator) CheckDutyPeriod(crewCode, date string, candidateDuration float64, flights []entity.Flight, excludeFlightID string) []string {
	if crewCode == "" {
		return nil
	}

	var accumulated float64
	for _, f := range flights {
		if f.ID == excludeFlightID && excludeFlightID != "" {
			continue
		}
		if f.Date != date {
			continue
		}
		if f.PIC == crewCode || f.SIC == crewCode {
			accumulated += f.FlightTime
		}
	}

	total := accumulated + candidateDuration
	if total <= DutyLimitHours {
		return nil
	}

	return []string{fmt.Sprintf(
		"%s already has %.1fh of flight time on %s; adding %.1fh brings the total to %.1fh, over the %.1fh duty limit",
		crewCode, accumulated, date, candidateDuration, total, DutyLimitHours)}
}

// CheckDocumentCurrency looks up the crew member's compliance records and
// warns for each safety-critical document whose expiry is strictly before the
// as-of date. Time of day is ignored. A failed lookup degrades to no
// warnings; it is logged, not surfaced.
func (v *Validator) CheckDocumentCurrency(ctx context.Context, crewCode string, asOf time.Time) []string {
	if crewCode == "" {
		return nil
	}

	records, err := v.complianceRepo.FindByCrewCode(ctx, crewCode)
	if err != nil {
		v.logger.Warn("Compliance record lookup failed", "crewCode", crewCode, "error", err)
		v.metrics.ErrorsCount.WithLabelValues("compliance_lookup").Inc()
		return nil
	}

	asOfDay := asOf.Truncate(24 * time.Hour)
	var warnings []string
	for _, rec := range records {
		if !rec.IsSafetyCritical() {
			continue
		}
		expiryDay := rec.ExpiryDate.Truncate(24 * time.Hour)
		if expiryDay.Before(asOfDay) {
			warnings = append(warnings, fmt.Sprintf(
				"%s for %s expired on %s",
				rec.Type, crewCode, rec.ExpiryDate.Format(dateLayout)))
		}
	}
	return warnings
}

// Run recomputes the full warning set for one validation trigger: duty-period
// warnings first, then document-currency warnings.
func (v *Validator) Run(ctx context.Context, in ValidationInput) []string {
	v.metrics.ValidationsRun.Inc()

	warnings := v.CheckDutyPeriod(in.CrewCode, in.Date, in.CandidateDuration, in.Flights, in.ExcludeFlightID)

	asOf, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		v.logger.Warn("Unparseable validation date", "date", in.Date)
		return warnings
	}
	return append(warnings, v.CheckDocumentCurrency(ctx, in.CrewCode, asOf)...)
}

// Trigger runs a validation pass in the background and applies its result to
// the board unless a newer trigger has been issued in the meantime. Returns
// the invocation token.
func (v *Validator) Trigger(ctx context.Context, board *WarningBoard, in ValidationInput) uint64 {
	token := board.nextToken()
	// The pass outlives the request that triggered it; superseded results
	// are handled by the token, not by cancellation
	ctx = context.WithoutCancel(ctx)
	go func() {
		warnings := v.Run(ctx, in)
		if !board.apply(token, warnings) {
			v.metrics.StaleValidationsDropped.Inc()
			v.logger.Debug("Dropped stale validation result", "token", token, "crewCode", in.CrewCode)
		}
	}()
	return token
}

// WarningBoard holds the advisory warnings of the latest validation trigger.
// Each trigger gets a monotonically increasing token; a result is applied
// only if no newer trigger has been issued, so slow lookups can never leave
// stale warnings behind.
type WarningBoard struct {
	mu       sync.Mutex
	latest   uint64
	warnings []string
}

// NewWarningBoard creates an empty warning board
func NewWarningBoard() *WarningBoard {
	return &WarningBoard{}
}

func (b *WarningBoard) nextToken() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest++
	return b.latest
}

func (b *WarningBoard) apply(token uint64, warnings []string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token != b.latest {
		return false
	}
	b.warnings = warnings
	return true
}

// Warnings returns the currently authoritative warning set
func (b *WarningBoard) Warnings() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.warnings...)
}
