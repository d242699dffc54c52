package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdesk-service/internal/domain/entity"
)

const testDate = "2024-01-01"

func loadedStore(t *testing.T, baseline ...entity.Flight) *StagingStore {
	t.Helper()
	s := NewStagingStore()
	require.True(t, s.Load(baseline, testDate))
	return s
}

func orderOf(n int) *int {
	return &n
}

func TestLoadFiltersAndSorts(t *testing.T) {
	a := persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC")
	a.Order = orderOf(1)
	b := persistedFlight("b", testDate, "TGY102", "KAI-OGL", "8R-ABC")
	b.Order = orderOf(0)
	c := persistedFlight("c", testDate, "TGY104", "OGL-IMB", "8R-DEF") // no order, sorts last
	other := persistedFlight("d", "2024-01-02", "TGY200", "OGL-KAI", "8R-ABC")

	s := loadedStore(t, a, b, c, other)

	flights := s.Flights()
	require.Len(t, flights, 3)
	assert.Equal(t, "b", flights[0].ID)
	assert.Equal(t, "a", flights[1].ID)
	assert.Equal(t, "c", flights[2].ID)
	assert.False(t, s.Dirty())
}

func TestLoadIsNoOpWhileDirty(t *testing.T) {
	s := loadedStore(t, persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"))
	s.UpdateField("a", "notes", "edited")
	require.True(t, s.Dirty())

	applied := s.Load([]entity.Flight{persistedFlight("x", testDate, "TGY999", "OGL-KAI", "8R-ABC")}, testDate)

	assert.False(t, applied)
	flights := s.Flights()
	require.Len(t, flights, 1)
	assert.Equal(t, "a", flights[0].ID)
	assert.Equal(t, "edited", flights[0].Notes)
}

func TestLoadIsNoOpWithPendingRemovals(t *testing.T) {
	s := loadedStore(t,
		persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"),
		persistedFlight("b", testDate, "TGY101", "KAI-OGL", "8R-ABC"),
	)
	s.Remove("a")

	assert.False(t, s.Load(nil, testDate))
	assert.Len(t, s.Flights(), 1)
}

func TestDiscardRestoresBaselineExactly(t *testing.T) {
	a := persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC")
	s := loadedStore(t, a)

	s.UpdateField("a", "etd", "10:00")
	s.InsertNew(entity.Flight{AircraftRegistration: "8R-DEF"})
	s.Remove("a")
	require.True(t, s.Dirty())

	s.Discard()

	assert.False(t, s.Dirty())
	flights := s.Flights()
	require.Len(t, flights, 1)
	assert.Equal(t, a, flights[0])
	assert.Empty(t, s.PendingRemovals())

	// Load works again after the discard
	assert.True(t, s.Load([]entity.Flight{a}, testDate))
}

func TestInsertNewAssignsProvisionalIdentity(t *testing.T) {
	s := loadedStore(t)
	f := s.InsertNew(entity.Flight{AircraftRegistration: "8R-ABC", AircraftType: "C208"})

	assert.True(t, f.IsProvisional())
	assert.Equal(t, testDate, f.Date)
	assert.Equal(t, entity.StatusScheduled, f.Status)
	assert.Nil(t, f.Order)
	assert.True(t, s.Dirty())
}

func TestInsertDerivedPlacesAfterSource(t *testing.T) {
	s := loadedStore(t,
		persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"),
		persistedFlight("b", testDate, "TGY102", "OGL-IMB", "8R-ABC"),
	)

	derived := persistedFlight(entity.NewProvisionalID(), testDate, "TGY101", "KAI-OGL", "8R-ABC")
	s.InsertDerived("a", derived)

	flights := s.Flights()
	require.Len(t, flights, 3)
	assert.Equal(t, "a", flights[0].ID)
	assert.Equal(t, "TGY101", flights[1].FlightNumber)
	assert.Equal(t, "b", flights[2].ID)
}

func TestInsertDerivedFallsBackToAppend(t *testing.T) {
	s := loadedStore(t, persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"))

	derived := persistedFlight(entity.NewProvisionalID(), testDate, "TGY999", "KAI-OGL", "8R-ABC")
	s.InsertDerived("missing", derived)

	flights := s.Flights()
	require.Len(t, flights, 2)
	assert.Equal(t, "TGY999", flights[1].FlightNumber)
}

func TestUpdateField(t *testing.T) {
	s := loadedStore(t, persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"))

	assert.True(t, s.UpdateField("a", "pic", "P1"))
	assert.True(t, s.UpdateField("a", "flightTime", 1.5))
	assert.True(t, s.UpdateField("a", "status", "Outbound"))

	f, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "P1", f.PIC)
	assert.Equal(t, 1.5, f.FlightTime)
	assert.Equal(t, entity.StatusOutbound, f.Status)
}

func TestUpdateFieldUnknownIdOrField(t *testing.T) {
	s := loadedStore(t, persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"))

	assert.False(t, s.UpdateField("missing", "pic", "P1"))
	assert.False(t, s.UpdateField("a", "noSuchField", "x"))
	assert.False(t, s.Dirty(), "rejected edits must not dirty the store")
}

func TestRemovePersistedRecordsRemoval(t *testing.T) {
	s := loadedStore(t, persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"))

	assert.True(t, s.Remove("a"))
	assert.Empty(t, s.Flights())
	assert.Equal(t, []string{"a"}, s.PendingRemovals())
}

func TestRemoveProvisionalLeavesNoTrace(t *testing.T) {
	s := loadedStore(t)
	f := s.InsertNew(entity.Flight{AircraftRegistration: "8R-ABC"})

	assert.True(t, s.Remove(f.ID))
	assert.Empty(t, s.Flights())
	assert.Empty(t, s.PendingRemovals())
}

func TestRemoveUnknownIdIsNoOp(t *testing.T) {
	s := loadedStore(t, persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"))
	assert.False(t, s.Remove("missing"))
	assert.Len(t, s.Flights(), 1)
}

func TestClearAll(t *testing.T) {
	s := loadedStore(t,
		persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"),
		persistedFlight("b", testDate, "TGY101", "KAI-OGL", "8R-ABC"),
	)
	s.InsertNew(entity.Flight{AircraftRegistration: "8R-DEF"})

	s.ClearAll()

	assert.Empty(t, s.Flights())
	assert.Equal(t, []string{"a", "b"}, s.PendingRemovals(), "only persisted ids join the removal set")
	assert.True(t, s.Dirty())
}

func TestGroupedPreservesWorkingOrder(t *testing.T) {
	s := loadedStore(t,
		persistedFlight("a", testDate, "TGY100", "OGL-KAI", "8R-ABC"),
		persistedFlight("b", testDate, "TGY200", "OGL-IMB", "8R-DEF"),
		persistedFlight("c", testDate, "TGY101", "KAI-OGL", "8R-ABC"),
	)

	groups := s.Grouped()
	require.Len(t, groups, 2)
	assert.Equal(t, "8R-ABC", groups[0].Registration)
	assert.Equal(t, []string{"a", "c"}, []string{groups[0].Flights[0].ID, groups[0].Flights[1].ID})
	assert.Equal(t, "8R-DEF", groups[1].Registration)
}
