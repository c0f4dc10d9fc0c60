package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/middleware"
	"checkin-backend/internal/models"
	"checkin-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

type TemplateHandler struct {
	Templates *repositories.TemplateRepository
	Rooms     *repositories.RoomRepository
}

func NewTemplateHandler(templates *repositories.TemplateRepository, rooms *repositories.RoomRepository) *TemplateHandler {
	return &TemplateHandler{Templates: templates, Rooms: rooms}
}

func (h *TemplateHandler) validate(r *http.Request, orgID int, req *models.CreateTemplateRequest) error {
	if req.Name == "" {
		return apperrors.Validation("name is required")
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return apperrors.Validation("day_of_week must be 0-6")
	}
	if req.StreakResetDays < 1 {
		return apperrors.Validation("streak_reset_days must be at least 1")
	}
	for _, roomID := range req.RoomIDs {
		room, err := h.Rooms.Get(r.Context(), orgID, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return apperrors.NotFound("room not found")
		}
	}
	return nil
}

// List returns all templates in the organization
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Templates.ListByOrg(r.Context(), middleware.OrgID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// Get returns one template
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	template, err := h.Templates.Get(r.Context(), middleware.OrgID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if template == nil {
		writeError(w, apperrors.NotFound("template not found"))
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// Create creates a new template
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	orgID := middleware.OrgID(r.Context())
	if err := h.validate(r, orgID, &req); err != nil {
		writeError(w, err)
		return
	}

	template := &models.Template{
		OrgID:           orgID,
		Name:            req.Name,
		DayOfWeek:       req.DayOfWeek,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		RoomIDs:         req.RoomIDs,
		CheckoutEnabled: req.CheckoutEnabled,
		StreakResetDays: req.StreakResetDays,
		Active:          true,
	}
	if err := h.Templates.Create(r.Context(), template); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

// Update replaces a template's fields and room assignments
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	var req struct {
		models.CreateTemplateRequest
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	template, err := h.Templates.Get(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if template == nil {
		writeError(w, apperrors.NotFound("template not found"))
		return
	}

	if req.Name != "" {
		template.Name = req.Name
	}
	if req.StartTime != "" {
		template.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		template.EndTime = req.EndTime
	}
	if req.DayOfWeek >= 0 && req.DayOfWeek <= 6 {
		template.DayOfWeek = req.DayOfWeek
	}
	if req.StreakResetDays > 0 {
		template.StreakResetDays = req.StreakResetDays
	}
	if req.RoomIDs != nil {
		for _, roomID := range req.RoomIDs {
			room, err := h.Rooms.Get(r.Context(), orgID, roomID)
			if err != nil {
				writeError(w, err)
				return
			}
			if room == nil {
				writeError(w, apperrors.NotFound("room not found"))
				return
			}
		}
		template.RoomIDs = req.RoomIDs
	}
	template.CheckoutEnabled = req.CheckoutEnabled
	if req.Active != nil {
		template.Active = *req.Active
	}

	if err := h.Templates.Update(r.Context(), template); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// Delete removes a template
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Templates.Delete(r.Context(), middleware.OrgID(r.Context()), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, apperrors.NotFound("template not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
