package entity

// FlightUpdate is a full-field patch for one persisted flight, always
// carrying the flight's current order
type FlightUpdate struct {
	ID    string `json:"id"`
	Patch Flight `json:"patch"`
}

// SyncSet is the write-set that moves the persisted baseline to match the
// working copy. It is submitted as one atomic unit.
type SyncSet struct {
	Creates []Flight       `json:"creates"`
	Updates []FlightUpdate `json:"updates"`
	Deletes []string       `json:"deletes"`
}

// Empty reports whether the set contains no operations
func (s SyncSet) Empty() bool {
	return len(s.Creates) == 0 && len(s.Updates) == 0 && len(s.Deletes) == 0
}
