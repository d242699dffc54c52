package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/internal/infrastructure/auth"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
)

// Handler exposes the schedule editing core to the dashboard
type Handler struct {
	sessions     *usecase.SessionManager
	validator    *usecase.Validator
	flightRepo   repository.FlightRepository
	aircraftRepo repository.AircraftRepository
	pilotRepo    repository.PilotRepository
	logger       logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sessions *usecase.SessionManager,
	validator *usecase.Validator,
	flightRepo repository.FlightRepository,
	aircraftRepo repository.AircraftRepository,
	pilotRepo repository.PilotRepository,
	logger logger.Logger,
) *Handler {
	return &Handler{
		sessions:     sessions,
		validator:    validator,
		flightRepo:   flightRepo,
		aircraftRepo: aircraftRepo,
		pilotRepo:    pilotRepo,
		logger:       logger,
	}
}

type openSessionRequest struct {
	Date string `json:"date"`
}

// OpenSession starts an editing session for one date
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	session, err := h.sessions.Open(r.Context(), req.Date)
	if err != nil {
		h.logger.Error("Failed to open session", "date", req.Date, "error", err)
		writeError(w, http.StatusBadGateway, "could not load schedule baseline")
		return
	}
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

// CloseSession drops an editing session
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// GetSchedule returns the grouped working-copy projection
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// InsertFlight appends a new provisional flight built from template fields
func (h *Handler) InsertFlight(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var template entity.Flight
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		writeError(w, http.StatusBadRequest, "invalid flight template")
		return
	}
	writeJSON(w, http.StatusCreated, session.InsertNew(template))
}

// AddSegment stages a continuation segment derived from an existing flight
func (h *Handler) AddSegment(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	derived, ok := session.AddSegment(h.sessions.Deriver(), mux.Vars(r)["flightId"])
	if !ok {
		writeError(w, http.StatusNotFound, "source flight not found")
		return
	}
	writeJSON(w, http.StatusCreated, derived)
}

// AddReturn stages a return leg derived from an existing flight
func (h *Handler) AddReturn(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	derived, ok := session.AddReturn(h.sessions.Deriver(), mux.Vars(r)["flightId"])
	if !ok {
		writeError(w, http.StatusNotFound, "source flight not found")
		return
	}
	writeJSON(w, http.StatusCreated, derived)
}

type updateFieldRequest struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

// UpdateField edits one field of one staged flight
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req updateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Field == "" {
		writeError(w, http.StatusBadRequest, "field is required")
		return
	}

	if !session.UpdateField(mux.Vars(r)["flightId"], req.Field, req.Value) {
		writeError(w, http.StatusNotFound, "no staged flight with that id and field")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFlight deletes one flight from the working copy
func (h *Handler) RemoveFlight(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if !session.Remove(mux.Vars(r)["flightId"]) {
		writeError(w, http.StatusNotFound, "no staged flight with that id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearSchedule removes every staged flight for the session's date
func (h *Handler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

// ReloadSession refreshes the working copy from the persisted baseline, for
// picking up persisted ids and other dispatchers' syncs. Refused while
// unsynced edits exist; sync or discard first.
func (h *Handler) ReloadSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	date := session.Snapshot().Date
	baseline, err := h.flightRepo.FindByDate(r.Context(), date)
	if err != nil {
		h.logger.Error("Baseline reload failed", "date", date, "error", err)
		writeError(w, http.StatusBadGateway, "could not load schedule baseline")
		return
	}
	if !session.Reload(baseline, date) {
		writeError(w, http.StatusConflict, "unsynced edits present")
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// DiscardSession restores the working copy from the last loaded baseline
func (h *Handler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Discard()
	writeJSON(w, http.StatusOK, session.Snapshot())
}

type syncResponse struct {
	Creates int `json:"creates"`
	Updates int `json:"updates"`
	Deletes int `json:"deletes"`
}

// SyncSession commits the working copy as one atomic write-set
func (h *Handler) SyncSession(w http.ResponseWriter, r *http.Request) {
	role := auth.RoleFromContext(r.Context())
	if role != "dispatcher" && role != "admin" {
		writeError(w, http.StatusForbidden, "sync requires the dispatcher role")
		return
	}

	set, err := h.sessions.Sync(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "editing session not found")
		return
	case errors.Is(err, usecase.ErrSyncInFlight):
		writeError(w, http.StatusConflict, "a sync is already in flight")
		return
	case err != nil:
		// Working copy and dirty state are untouched; the dispatcher can retry
		writeError(w, http.StatusBadGateway, "schedule sync failed, your edits are preserved")
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		Creates: len(set.Creates),
		Updates: len(set.Updates),
		Deletes: len(set.Deletes),
	})
}

type validateRequest struct {
	CrewCode          string  `json:"crewCode"`
	CandidateDuration float64 `json:"candidateDuration"`
	ExcludeFlightID   string  `json:"excludeFlightId"`
}

type validateResponse struct {
	Token uint64 `json:"token"`
}

// ValidateSession recomputes the session's advisory warnings in the
// background; the result lands on the next schedule snapshot
func (h *Handler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid validation request")
		return
	}

	token := h.sessions.TriggerValidation(r.Context(), session, req.CrewCode, req.CandidateDuration, req.ExcludeFlightID)
	writeJSON(w, http.StatusAccepted, validateResponse{Token: token})
}

type checkComplianceRequest struct {
	CrewCode          string  `json:"crewCode"`
	Date              string  `json:"date"`
	CandidateDuration float64 `json:"candidateDuration"`
	ExcludeFlightID   string  `json:"excludeFlightId"`
}

type checkComplianceResponse struct {
	Warnings []string `json:"warnings"`
}

// CheckCompliance runs the advisory checks synchronously against the
// persisted baseline, for callers outside an editing session
func (h *Handler) CheckCompliance(w http.ResponseWriter, r *http.Request) {
	var req checkComplianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CrewCode == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, "crewCode and date are required")
		return
	}

	flights, err := h.flightRepo.FindByDate(r.Context(), req.Date)
	if err != nil {
		h.logger.Error("Baseline load for compliance check failed", "date", req.Date, "error", err)
		writeError(w, http.StatusBadGateway, "could not load schedule baseline")
		return
	}

	warnings := h.validator.Run(r.Context(), usecase.ValidationInput{
		CrewCode:          req.CrewCode,
		Date:              req.Date,
		CandidateDuration: req.CandidateDuration,
		Flights:           flights,
		ExcludeFlightID:   req.ExcludeFlightID,
	})
	writeJSON(w, http.StatusOK, checkComplianceResponse{Warnings: warnings})
}

type previewRequest struct {
	Flight entity.Flight `json:"flight"`
}

// PreviewSegment derives a continuation segment without staging it
func (h *Handler) PreviewSegment(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid source flight")
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.Deriver().ContinuationSegment(req.Flight))
}

// PreviewReturn derives a return leg without staging it
func (h *Handler) PreviewReturn(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid source flight")
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.Deriver().ReturnLeg(req.Flight))
}

type fleetEntry struct {
	Registration     string                      `json:"registration"`
	Type             string                      `json:"type"`
	Status           entity.AircraftStatus       `json:"status"`
	CurrentHours     float64                     `json:"currentHours"`
	NextCheckHours   float64                     `json:"nextCheckHours"`
	Check            usecase.CheckClassification `json:"check"`
	OverviewProgress float64                     `json:"overviewProgress"`
}

// GetFleet returns the fleet with check classification and both progress
// displays
func (h *Handler) GetFleet(w http.ResponseWriter, r *http.Request) {
	aircraft, err := h.aircraftRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Fleet list failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not load fleet")
		return
	}

	entries := make([]fleetEntry, 0, len(aircraft))
	for _, ac := range aircraft {
		entries = append(entries, fleetEntry{
			Registration:     ac.Registration,
			Type:             ac.Type,
			Status:           ac.Status,
			CurrentHours:     ac.CurrentHours,
			NextCheckHours:   ac.NextCheckHours,
			Check:            usecase.ClassifyCheck(ac),
			OverviewProgress: usecase.OverviewProgress(ac),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetPilots returns the crew roster
func (h *Handler) GetPilots(w http.ResponseWriter, r *http.Request) {
	pilots, err := h.pilotRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Pilot list failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not load pilots")
		return
	}
	writeJSON(w, http.StatusOK, pilots)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*usecase.Session, bool) {
	session, err := h.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "editing session not found")
		return nil, false
	}
	return session, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
