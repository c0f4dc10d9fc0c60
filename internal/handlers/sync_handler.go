package handlers

import (
	"net/http"

	"checkin-backend/internal/middleware"
	"checkin-backend/internal/services"
)

type SyncHandler struct {
	Sync *services.SyncService
}

func NewSyncHandler(sync *services.SyncService) *SyncHandler {
	return &SyncHandler{Sync: sync}
}

// Snapshot serves the full pull snapshot for the caller's organization
func (h *SyncHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Sync.Snapshot(r.Context(), middleware.OrgID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
