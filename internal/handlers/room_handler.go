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

type RoomHandler struct {
	Rooms *repositories.RoomRepository
}

func NewRoomHandler(rooms *repositories.RoomRepository) *RoomHandler {
	return &RoomHandler{Rooms: rooms}
}

// List returns all rooms in the organization
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Rooms.ListByOrg(r.Context(), middleware.OrgID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rooms": rooms})
}

// Create creates a new room
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.Name == "" {
		writeError(w, apperrors.Validation("name is required"))
		return
	}
	if req.Capacity < 1 {
		writeError(w, apperrors.Validation("capacity must be at least 1"))
		return
	}

	room := &models.Room{
		OrgID:    middleware.OrgID(r.Context()),
		Name:     req.Name,
		Capacity: req.Capacity,
	}
	if err := h.Rooms.Create(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// Update edits a room's name and capacity. Shrinking capacity below the
// current open-session count is allowed; it only blocks new check-ins.
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	room, err := h.Rooms.Get(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if room == nil {
		writeError(w, apperrors.NotFound("room not found"))
		return
	}

	if req.Name != "" {
		room.Name = req.Name
	}
	if req.Capacity > 0 {
		room.Capacity = req.Capacity
	}
	if err := h.Rooms.Update(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// Delete removes a room
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Rooms.Delete(r.Context(), middleware.OrgID(r.Context()), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, apperrors.NotFound("room not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
