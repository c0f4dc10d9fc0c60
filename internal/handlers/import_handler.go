package handlers

import (
	"encoding/json"
	"net/http"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/middleware"
	"checkin-backend/internal/models"
	"checkin-backend/internal/services"
)

// importMaxRecords bounds a single import payload
const importMaxRecords = 5000

type ImportHandler struct {
	Importer *services.ImportService
}

func NewImportHandler(importer *services.ImportService) *ImportHandler {
	return &ImportHandler{Importer: importer}
}

// Import runs a bulk roster import and returns a per-family summary
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req models.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if len(req.Records) == 0 {
		writeError(w, apperrors.Validation("records is empty"))
		return
	}
	if len(req.Records) > importMaxRecords {
		writeError(w, apperrors.Validation("too many records in one batch"))
		return
	}

	summary, err := h.Importer.Import(r.Context(), middleware.OrgID(r.Context()), req.Records)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
