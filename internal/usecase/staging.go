package usecase

import (
	"sort"

	"flightdesk-service/internal/domain/entity"
)

// AircraftGroup is the per-aircraft view of the working copy, in working-
// sequence order.
type AircraftGroup struct {
	Registration string          `json:"registration"`
	Flights      []entity.Flight `json:"flights"`
}

// StagingStore holds the dispatcher's working copy of one day's flights plus
// the set of persisted ids marked for removal. All edits happen here; the
// persisted baseline is only touched at sync time.
//
// The store is not safe for concurrent use; the editing session serializes
// access to it.
type StagingStore struct {
	date     string
	working  []entity.Flight
	baseline []entity.Flight
	removed  map[string]struct{}
	dirty    bool

	// generation increments on every mutation so an overlapping sync can
	// tell whether edits arrived while its commit was outstanding
	generation uint64
}

// NewStagingStore creates an empty staging store
func NewStagingStore() *StagingStore {
	return &StagingStore{removed: make(map[string]struct{})}
}

// Load replaces the working copy with the baseline filtered to date, sorted
// by order with missing order last (stable). It is a no-op while the store is
// dirty or has pending removals: an explicit Discard is required first, so a
// live baseline update never silently drops unsynced edits. Returns whether
// the load was applied.
func (s *StagingStore) Load(baseline []entity.Flight, date string) bool {
	if s.dirty || len(s.removed) > 0 {
		return false
	}

	filtered := make([]entity.Flight, 0, len(baseline))
	for _, f := range baseline {
		if f.Date == date {
			filtered = append(filtered, f)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i].Order, filtered[j].Order
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	s.date = date
	s.baseline = append([]entity.Flight(nil), filtered...)
	s.working = append([]entity.Flight(nil), filtered...)
	s.removed = make(map[string]struct{})
	s.dirty = false
	return true
}

// InsertNew appends a new provisional flight built from the supplied template
// fields and returns it.
func (s *StagingStore) InsertNew(template entity.Flight) entity.Flight {
	template.ID = entity.NewProvisionalID()
	template.Date = s.date
	if template.Status == "" {
		template.Status = entity.StatusScheduled
	}
	template.Order = nil

	s.working = append(s.working, template)
	s.markDirty()
	return template
}

// InsertDerived inserts derived immediately after the flight with sourceID in
// the working sequence, falling back to append when the source is not found.
func (s *StagingStore) InsertDerived(sourceID string, derived entity.Flight) entity.Flight {
	derived.Date = s.date
	derived.Order = nil

	pos := len(s.working)
	for i, f := range s.working {
		if f.ID == sourceID {
			pos = i + 1
			break
		}
	}

	s.working = append(s.working, entity.Flight{})
	copy(s.working[pos+1:], s.working[pos:])
	s.working[pos] = derived
	s.markDirty()
	return derived
}

// UpdateField replaces one field of the flight with the given id. Unknown ids
// and unknown field names are a no-op; the return value reports whether a
// field was changed.
func (s *StagingStore) UpdateField(id, field string, value interface{}) bool {
	for i := range s.working {
		if s.working[i].ID != id {
			continue
		}
		if !setFlightField(&s.working[i], field, value) {
			return false
		}
		s.markDirty()
		return true
	}
	return false
}

// Remove deletes the flight from the working sequence. A persisted id joins
// the removal set so the baseline copy is deleted on the next sync; a
// provisional flight leaves no trace. Unknown ids are a no-op.
func (s *StagingStore) Remove(id string) bool {
	for i := range s.working {
		if s.working[i].ID != id {
			continue
		}
		if !s.working[i].IsProvisional() {
			s.removed[id] = struct{}{}
		}
		s.working = append(s.working[:i], s.working[i+1:]...)
		s.markDirty()
		return true
	}
	return false
}

// ClearAll removes every flight in the working date, adding each persisted id
// to the removal set.
func (s *StagingStore) ClearAll() {
	for i := range s.working {
		if !s.working[i].IsProvisional() {
			s.removed[s.working[i].ID] = struct{}{}
		}
	}
	s.working = s.working[:0]
	s.markDirty()
}

// Discard restores the working copy from the last loaded baseline and clears
// the dirty flag and removal set.
func (s *StagingStore) Discard() {
	s.working = append([]entity.Flight(nil), s.baseline...)
	s.removed = make(map[string]struct{})
	s.dirty = false
	s.generation++
}

// Flights returns a copy of the working sequence
func (s *StagingStore) Flights() []entity.Flight {
	return append([]entity.Flight(nil), s.working...)
}

// Get returns the staged flight with the given id
func (s *StagingStore) Get(id string) (entity.Flight, bool) {
	for _, f := range s.working {
		if f.ID == id {
			return f, true
		}
	}
	return entity.Flight{}, false
}

// Grouped returns the working copy grouped by aircraft registration, groups
// ordered by first appearance and flights in working-sequence order.
func (s *StagingStore) Grouped() []AircraftGroup {
	var groups []AircraftGroup
	index := make(map[string]int)

	for _, f := range s.working {
		i, ok := index[f.AircraftRegistration]
		if !ok {
			i = len(groups)
			index[f.AircraftRegistration] = i
			groups = append(groups, AircraftGroup{Registration: f.AircraftRegistration})
		}
		groups[i].Flights = append(groups[i].Flights, f)
	}
	return groups
}

// Dirty reports whether the working copy has unsynced edits
func (s *StagingStore) Dirty() bool {
	return s.dirty || len(s.removed) > 0
}

// Date returns the date the store is staged for
func (s *StagingStore) Date() string {
	return s.date
}

// PendingRemovals returns the persisted ids marked for deletion, sorted
func (s *StagingStore) PendingRemovals() []string {
	ids := make([]string, 0, len(s.removed))
	for id := range s.removed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *StagingStore) markDirty() {
	s.dirty = true
	s.generation++
}

// assignOrders stamps every working flight with its zero-based position,
// mirroring what a committed write-set carried.
func (s *StagingStore) assignOrders() {
	for i := range s.working {
		order := i
		s.working[i].Order = &order
	}
}

// completeSync is called after a successful commit: committed removals are
// cleared and the created flights adopt their persisted ids, so a later sync
// partitions them as updates instead of re-creating them. Unless edits
// arrived while the commit was outstanding, the store returns to clean with
// the committed arrangement as its new baseline.
func (s *StagingStore) completeSync(committed entity.SyncSet, provisionalIDs, createdIDs []string, generation uint64) {
	for _, id := range committed.Deletes {
		delete(s.removed, id)
	}

	adopted := make(map[string]string, len(createdIDs))
	for i, id := range createdIDs {
		if i < len(provisionalIDs) {
			adopted[provisionalIDs[i]] = id
		}
	}
	for i := range s.working {
		if id, ok := adopted[s.working[i].ID]; ok {
			s.working[i].ID = id
		}
	}

	if s.generation == generation {
		s.assignOrders()
		s.dirty = false
		s.baseline = append([]entity.Flight(nil), s.working...)
	}
}

// setFlightField applies one named field edit. Field names follow the JSON
// shape the dashboard sends.
func setFlightField(f *entity.Flight, field string, value interface{}) bool {
	switch field {
	case "date":
		f.Date = asString(value)
	case "flightNumber":
		f.FlightNumber = asString(value)
	case "route":
		f.Route = asString(value)
	case "aircraftRegistration":
		f.AircraftRegistration = asString(value)
	case "aircraftType":
		f.AircraftType = asString(value)
	case "etd":
		f.ETD = asString(value)
	case "flightTime":
		f.FlightTime = asFloat(value)
	case "commercialTime":
		f.CommercialTime = asString(value)
	case "pic":
		f.PIC = asString(value)
	case "sic":
		f.SIC = asString(value)
	case "customer":
		f.Customer = asString(value)
	case "customerId":
		f.CustomerID = asString(value)
	case "status":
		f.Status = entity.FlightStatus(asString(value))
	case "notes":
		f.Notes = asString(value)
	default:
		return false
	}
	return true
}

func asString(value interface{}) string {
	s, _ := value.(string)
	return s
}

func asFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
