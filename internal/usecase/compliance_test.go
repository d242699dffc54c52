package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flightdesk-service/internal/domain/entity"
)

func dutyFlight(id, pic, sic string, hours float64) entity.Flight {
	return entity.Flight{ID: id, Date: testDate, PIC: pic, SIC: sic, FlightTime: hours}
}

func TestCheckDutyPeriodOverrun(t *testing.T) {
	v := NewValidator(new(mockComplianceRepo), testMetrics, testLogger)

	flights := []entity.Flight{
		dutyFlight("a", "P1", "", 3.0),
		dutyFlight("b", "P2", "P1", 3.0),
	}

	warnings := v.CheckDutyPeriod("P1", testDate, 3.0, flights, "")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "6.0")
	assert.Contains(t, warnings[0], "3.0")
	assert.Contains(t, warnings[0], "9.0")
}

func TestCheckDutyPeriodWithinLimit(t *testing.T) {
	v := NewValidator(new(mockComplianceRepo), testMetrics, testLogger)

	flights := []entity.Flight{
		dutyFlight("a", "P1", "", 3.0),
		dutyFlight("b", "P1", "", 3.0),
	}

	// Exactly at the limit is fine; the threshold is strict
	assert.Empty(t, v.CheckDutyPeriod("P1", testDate, 2.0, flights, ""))
}

func TestCheckDutyPeriodExcludesEditedFlight(t *testing.T) {
	v := NewValidator(new(mockComplianceRepo), testMetrics, testLogger)

	flights := []entity.Flight{
		dutyFlight("a", "P1", "", 4.0),
		dutyFlight("b", "P1", "", 5.0),
	}

	// Editing flight b: its old duration must not double-count
	assert.Empty(t, v.CheckDutyPeriod("P1", testDate, 4.0, flights, "b"))

	warnings := v.CheckDutyPeriod("P1", testDate, 5.0, flights, "b")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "9.0")
}

func TestCheckDutyPeriodIgnoresOtherDatesAndCrew(t *testing.T) {
	v := NewValidator(new(mockComplianceRepo), testMetrics, testLogger)

	otherDay := dutyFlight("a", "P1", "", 7.0)
	otherDay.Date = "2024-01-02"
	flights := []entity.Flight{otherDay, dutyFlight("b", "P2", "", 7.0)}

	assert.Empty(t, v.CheckDutyPeriod("P1", testDate, 3.0, flights, ""))
}

func TestCheckDocumentCurrency(t *testing.T) {
	asOf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := new(mockComplianceRepo)
	repo.On("FindByCrewCode", mock.Anything, "P1").Return([]entity.ComplianceRecord{
		{CrewCode: "P1", Type: entity.DocTypeMedical, ExpiryDate: time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC)},
		{CrewCode: "P1", Type: entity.DocTypeLicense, ExpiryDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{CrewCode: "P1", Type: "Dangerous Goods", ExpiryDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	v := NewValidator(repo, testMetrics, testLogger)
	warnings := v.CheckDocumentCurrency(context.Background(), "P1", asOf)

	require.Len(t, warnings, 1, "only safety-critical documents are checked")
	assert.Contains(t, warnings[0], entity.DocTypeMedical)
	assert.Contains(t, warnings[0], "2023-11-30")
}

func TestCheckDocumentCurrencyExpiryOnAsOfDayIsCurrent(t *testing.T) {
	asOf := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)

	repo := new(mockComplianceRepo)
	repo.On("FindByCrewCode", mock.Anything, "P1").Return([]entity.ComplianceRecord{
		// Expires the same day: date-only comparison, strictly before
		{CrewCode: "P1", Type: entity.DocTypeLicense, ExpiryDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	v := NewValidator(repo, testMetrics, testLogger)
	assert.Empty(t, v.CheckDocumentCurrency(context.Background(), "P1", asOf))
}

func TestCheckDocumentCurrencyLookupFailureDegrades(t *testing.T) {
	repo := new(mockComplianceRepo)
	repo.On("FindByCrewCode", mock.Anything, "P1").Return(nil, errors.New("connection reset"))

	v := NewValidator(repo, testMetrics, testLogger)
	assert.Empty(t, v.CheckDocumentCurrency(context.Background(), "P1", time.Now()))
}

func TestRunOrdersDutyBeforeDocuments(t *testing.T) {
	repo := new(mockComplianceRepo)
	repo.On("FindByCrewCode", mock.Anything, "P1").Return([]entity.ComplianceRecord{
		{CrewCode: "P1", Type: entity.DocTypeMedical, ExpiryDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	v := NewValidator(repo, testMetrics, testLogger)
	warnings := v.Run(context.Background(), ValidationInput{
		CrewCode:          "P1",
		Date:              testDate,
		CandidateDuration: 9.0,
	})

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "duty limit")
	assert.Contains(t, warnings[1], entity.DocTypeMedical)
}

func TestTriggerOutlivesCallerContext(t *testing.T) {
	// The request that triggers a validation returns immediately; its
	// cancellation must not starve the document lookup.
	repo := new(mockComplianceRepo)
	var lookupCtxErr error
	repo.On("FindByCrewCode", mock.Anything, "P1").
		Run(func(args mock.Arguments) {
			lookupCtxErr = args.Get(0).(context.Context).Err()
		}).
		Return([]entity.ComplianceRecord{
			{CrewCode: "P1", Type: entity.DocTypeMedical, ExpiryDate: time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC)},
		}, nil)

	v := NewValidator(repo, testMetrics, testLogger)
	board := NewWarningBoard()

	ctx, cancel := context.WithCancel(context.Background())
	v.Trigger(ctx, board, ValidationInput{CrewCode: "P1", Date: testDate})
	cancel()

	require.Eventually(t, func() bool {
		return len(board.Warnings()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.NoError(t, lookupCtxErr, "the lookup runs on a detached context")
	assert.Contains(t, board.Warnings()[0], entity.DocTypeMedical)
}

func TestWarningBoardDropsStaleResults(t *testing.T) {
	board := NewWarningBoard()

	first := board.nextToken()
	second := board.nextToken()

	assert.True(t, board.apply(second, []string{"current"}))
	assert.False(t, board.apply(first, []string{"stale"}), "an older in-flight result must be discarded")
	assert.Equal(t, []string{"current"}, board.Warnings())
}

func TestTriggerAppliesLatestResult(t *testing.T) {
	repo := new(mockComplianceRepo)
	repo.On("FindByCrewCode", mock.Anything, "P1").Return([]entity.ComplianceRecord{}, nil)

	v := NewValidator(repo, testMetrics, testLogger)
	board := NewWarningBoard()

	v.Trigger(context.Background(), board, ValidationInput{
		CrewCode:          "P1",
		Date:              testDate,
		CandidateDuration: 9.0,
	})

	require.Eventually(t, func() bool {
		return len(board.Warnings()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, board.Warnings()[0], "duty limit")
}
