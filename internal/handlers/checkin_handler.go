package handlers

import (
	"encoding/json"
	"net/http"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/middleware"
	"checkin-backend/internal/models"
	"checkin-backend/internal/services"
)

type CheckinHandler struct {
	Service *services.CheckinService
}

func NewCheckinHandler(service *services.CheckinService) *CheckinHandler {
	return &CheckinHandler{Service: service}
}

// Open checks a person in and returns the pickup code plus label payload
func (h *CheckinHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req models.OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	event, err := h.Service.OpenSession(r.Context(), middleware.OrgID(r.Context()), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// Close checks a person out when the pickup code matches
func (h *CheckinHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req models.CloseSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	session, err := h.Service.CloseSession(r.Context(), middleware.OrgID(r.Context()), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Lookup resolves a PIN to a person
func (h *CheckinHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	person, err := h.Service.LookupPerson(r.Context(), middleware.OrgID(r.Context()), r.URL.Query().Get("pin"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// ListOpen returns the organization's currently open sessions
func (h *CheckinHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Service.ListOpenSessions(r.Context(), middleware.OrgID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []models.CheckinSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}
