package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("editing session not found")
	// ErrSyncInFlight is returned when a sync is requested while one is
	// already outstanding for the session
	ErrSyncInFlight = errors.New("a sync is already in flight for this session")
)

// Session is one open editing session: a staging store, its advisory warning
// board, and the single-flight sync guard. Two dashboard tabs get two
// independent sessions reconciled only through the persisted baseline.
type Session struct {
	ID      string
	store   *StagingStore
	board   *WarningBoard
	metrics *metrics.Metrics

	mu           sync.Mutex
	syncInFlight bool
	lastActive   time.Time
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

// InsertNew appends a provisional flight built from the template fields
func (s *Session) InsertNew(template entity.Flight) entity.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.metrics.StagedMutations.Inc()
	return s.store.InsertNew(template)
}

// AddSegment derives a continuation segment from the flight with sourceID and
// stages it right after its source. Returns false when the source is unknown.
func (s *Session) AddSegment(d *Deriver, sourceID string) (entity.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	source, ok := s.store.Get(sourceID)
	if !ok {
		return entity.Flight{}, false
	}
	s.metrics.StagedMutations.Inc()
	return s.store.InsertDerived(sourceID, d.ContinuationSegment(source)), true
}

// AddReturn derives a return leg from the flight with sourceID and stages it
// right after its source. Returns false when the source is unknown.
func (s *Session) AddReturn(d *Deriver, sourceID string) (entity.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	source, ok := s.store.Get(sourceID)
	if !ok {
		return entity.Flight{}, false
	}
	s.metrics.StagedMutations.Inc()
	return s.store.InsertDerived(sourceID, d.ReturnLeg(source)), true
}

// UpdateField edits one field of one staged flight
func (s *Session) UpdateField(id, field string, value interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.store.UpdateField(id, field, value) {
		return false
	}
	s.metrics.StagedMutations.Inc()
	return true
}

// Remove deletes one flight from the working copy
func (s *Session) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.store.Remove(id) {
		return false
	}
	s.metrics.StagedMutations.Inc()
	return true
}

// ClearAll removes every staged flight for the date
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.metrics.StagedMutations.Inc()
	s.store.ClearAll()
}

// Discard restores the working copy from the last loaded baseline
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.store.Discard()
}

// Reload replaces the working copy from a fresh baseline; a no-op while the
// store is dirty. Returns whether the load was applied.
func (s *Session) Reload(baseline []entity.Flight, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.store.Load(baseline, date)
}

// ScheduleSnapshot is the read projection handed to the dashboard
type ScheduleSnapshot struct {
	SessionID       string          `json:"sessionId"`
	Date            string          `json:"date"`
	Dirty           bool            `json:"dirty"`
	SyncInFlight    bool            `json:"syncInFlight"`
	Groups          []AircraftGroup `json:"groups"`
	PendingRemovals []string        `json:"pendingRemovals,omitempty"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// Snapshot returns the grouped read projection plus session status
func (s *Session) Snapshot() ScheduleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return ScheduleSnapshot{
		SessionID:       s.ID,
		Date:            s.store.Date(),
		Dirty:           s.store.Dirty(),
		SyncInFlight:    s.syncInFlight,
		Groups:          s.store.Grouped(),
		PendingRemovals: s.store.PendingRemovals(),
		Warnings:        s.board.Warnings(),
	}
}

// Flights returns a copy of the session's working sequence
func (s *Session) Flights() []entity.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Flights()
}

// SessionManager owns the open editing sessions, one staging store each
type SessionManager struct {
	flightRepo repository.FlightRepository
	reconciler *SyncReconciler
	validator  *Validator
	deriver    *Deriver
	metrics    *metrics.Metrics
	logger     logger.Logger
	ttl        time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a new session manager. Sessions idle longer than
// ttl are dropped by the sweeper.
func NewSessionManager(
	flightRepo repository.FlightRepository,
	reconciler *SyncReconciler,
	validator *Validator,
	deriver *Deriver,
	m *metrics.Metrics,
	logger logger.Logger,
	ttl time.Duration,
) *SessionManager {
	return &SessionManager{
		flightRepo: flightRepo,
		reconciler: reconciler,
		validator:  validator,
		deriver:    deriver,
		metrics:    m,
		logger:     logger,
		ttl:        ttl,
		sessions:   make(map[string]*Session),
	}
}

// Open starts a new editing session for a date, loading the current baseline
func (m *SessionManager) Open(ctx context.Context, date string) (*Session, error) {
	baseline, err := m.flightRepo.FindByDate(ctx, date)
	if err != nil {
		m.metrics.ErrorsCount.WithLabelValues("baseline_load").Inc()
		return nil, fmt.Errorf("load baseline for %s: %w", date, err)
	}

	session := &Session{
		ID:         uuid.NewString(),
		store:      NewStagingStore(),
		board:      NewWarningBoard(),
		metrics:    m.metrics,
		lastActive: time.Now(),
	}
	session.store.Load(baseline, date)

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("Editing session opened", "sessionID", session.ID, "date", date, "flights", len(baseline))
	return session, nil
}

// Get returns the session with the given id
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close drops a session; unsynced edits are gone
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Deriver returns the shared derivation engine
func (m *SessionManager) Deriver() *Deriver {
	return m.deriver
}

// Sync commits the session's working copy as one atomic write-set. Only one
// sync may be in flight per session; edits made while the commit is
// outstanding carry into the next sync's diff.
func (m *SessionManager) Sync(ctx context.Context, id string) (entity.SyncSet, error) {
	session, err := m.Get(id)
	if err != nil {
		return entity.SyncSet{}, err
	}

	session.mu.Lock()
	if session.syncInFlight {
		session.mu.Unlock()
		return entity.SyncSet{}, ErrSyncInFlight
	}
	session.syncInFlight = true
	session.touch()
	session.mu.Unlock()

	defer func() {
		session.mu.Lock()
		session.syncInFlight = false
		session.mu.Unlock()
	}()

	return m.reconciler.Sync(ctx, session.store, &session.mu)
}

// TriggerValidation recomputes the session's advisory warnings in the
// background; stale results are dropped by the warning board.
func (m *SessionManager) TriggerValidation(ctx context.Context, session *Session, crewCode string, candidateDuration float64, excludeFlightID string) uint64 {
	session.mu.Lock()
	in := ValidationInput{
		CrewCode:          crewCode,
		Date:              session.store.Date(),
		CandidateDuration: candidateDuration,
		Flights:           session.store.Flights(),
		ExcludeFlightID:   excludeFlightID,
	}
	session.mu.Unlock()
	return m.validator.Trigger(ctx, session.board, in)
}

// StartSweeper drops idle sessions periodically until ctx is cancelled
func (m *SessionManager) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *SessionManager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, session := range m.sessions {
		session.mu.Lock()
		idle := session.lastActive.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			m.logger.Info("Expired idle editing session", "sessionID", id)
		}
	}
}
