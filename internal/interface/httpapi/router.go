package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightdesk-service/internal/infrastructure/auth"
	"flightdesk-service/internal/interface/wshub"
)

// NewRouter wires the dashboard-facing routes. Everything under /api requires
// a valid session token; the feed socket authenticates on its own terms.
func NewRouter(h *Handler, verifier *auth.Verifier, hub *wshub.Hub) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	r.HandleFunc("/ws/schedule", hub.ServeWS)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(verifier.Middleware)

	api.HandleFunc("/sessions", h.OpenSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.CloseSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/schedule", h.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/flights", h.InsertFlight).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/flights", h.ClearSchedule).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/flights/{flightId}", h.UpdateField).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{id}/flights/{flightId}", h.RemoveFlight).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/flights/{flightId}/segment", h.AddSegment).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/flights/{flightId}/return", h.AddReturn).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/discard", h.DiscardSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reload", h.ReloadSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/sync", h.SyncSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/validate", h.ValidateSession).Methods(http.MethodPost)

	api.HandleFunc("/validate", h.CheckCompliance).Methods(http.MethodPost)
	api.HandleFunc("/preview/segment", h.PreviewSegment).Methods(http.MethodPost)
	api.HandleFunc("/preview/return", h.PreviewReturn).Methods(http.MethodPost)
	api.HandleFunc("/fleet", h.GetFleet).Methods(http.MethodGet)
	api.HandleFunc("/pilots", h.GetPilots).Methods(http.MethodGet)

	return r
}
