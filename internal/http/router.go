package http

import (
	"net/http"

	"checkin-backend/internal/handlers"
	"checkin-backend/internal/metrics"
	"checkin-backend/internal/middleware"

	"github.com/gorilla/mux"
)

// Handlers collects everything the router mounts
type Handlers struct {
	Auth      *handlers.AuthHandler
	Checkins  *handlers.CheckinHandler
	Families  *handlers.FamilyHandler
	Persons   *handlers.PersonHandler
	Templates *handlers.TemplateHandler
	Rooms     *handlers.RoomHandler
	Rewards   *handlers.RewardHandler
	Import    *handlers.ImportHandler
	Sync      *handlers.SyncHandler
	Events    *handlers.EventsHandler
	Health    *handlers.HealthHandler
}

// NewRouter wires all routes. Everything under /api except the token
// endpoint requires an organization token. The websocket route carries
// auth but skips the metrics wrapper, which would break the hijack the
// upgrader needs.
func NewRouter(h *Handlers, authMw *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", h.Health.Health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/api/auth/token", h.Auth.Token).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMw.RequireOrg)
	api.Use(middleware.Metrics)
	api.Use(middleware.SecurityHeaders)

	api.HandleFunc("/lookup", h.Checkins.Lookup).Methods("GET")
	api.HandleFunc("/checkins", h.Checkins.Open).Methods("POST")
	api.HandleFunc("/checkins/close", h.Checkins.Close).Methods("POST")
	api.HandleFunc("/checkins/open", h.Checkins.ListOpen).Methods("GET")

	api.HandleFunc("/families", h.Families.List).Methods("GET")
	api.HandleFunc("/families", h.Families.Create).Methods("POST")
	api.HandleFunc("/families/{id:[0-9]+}", h.Families.Get).Methods("GET")
	api.HandleFunc("/families/{id:[0-9]+}", h.Families.Update).Methods("PUT")
	api.HandleFunc("/families/{id:[0-9]+}", h.Families.Delete).Methods("DELETE")

	api.HandleFunc("/persons", h.Persons.List).Methods("GET")
	api.HandleFunc("/persons", h.Persons.Create).Methods("POST")
	api.HandleFunc("/persons/{id:[0-9]+}", h.Persons.Get).Methods("GET")
	api.HandleFunc("/persons/{id:[0-9]+}", h.Persons.Update).Methods("PUT")
	api.HandleFunc("/persons/{id:[0-9]+}", h.Persons.Delete).Methods("DELETE")
	api.HandleFunc("/persons/{id:[0-9]+}/pin", h.Persons.RegeneratePIN).Methods("POST")

	api.HandleFunc("/templates", h.Templates.List).Methods("GET")
	api.HandleFunc("/templates", h.Templates.Create).Methods("POST")
	api.HandleFunc("/templates/{id:[0-9]+}", h.Templates.Get).Methods("GET")
	api.HandleFunc("/templates/{id:[0-9]+}", h.Templates.Update).Methods("PUT")
	api.HandleFunc("/templates/{id:[0-9]+}", h.Templates.Delete).Methods("DELETE")

	api.HandleFunc("/rooms", h.Rooms.List).Methods("GET")
	api.HandleFunc("/rooms", h.Rooms.Create).Methods("POST")
	api.HandleFunc("/rooms/{id:[0-9]+}", h.Rooms.Update).Methods("PUT")
	api.HandleFunc("/rooms/{id:[0-9]+}", h.Rooms.Delete).Methods("DELETE")

	api.HandleFunc("/rewards", h.Rewards.List).Methods("GET")
	api.HandleFunc("/rewards", h.Rewards.Create).Methods("POST")
	api.HandleFunc("/rewards/{id:[0-9]+}", h.Rewards.Update).Methods("PUT")
	api.HandleFunc("/rewards/{id:[0-9]+}", h.Rewards.Delete).Methods("DELETE")

	api.HandleFunc("/import", h.Import.Import).Methods("POST")
	api.HandleFunc("/sync/snapshot", h.Sync.Snapshot).Methods("GET")

	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authMw.RequireOrg)
	ws.HandleFunc("/checkins", h.Events.Subscribe).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"route not found","kind":"not_found"}`))
	})

	return r
}
