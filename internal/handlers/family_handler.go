package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/middleware"
	"checkin-backend/internal/models"
	"checkin-backend/internal/repositories"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
)

type FamilyHandler struct {
	Families *repositories.FamilyRepository
	Persons  *repositories.PersonRepository
}

func NewFamilyHandler(families *repositories.FamilyRepository, persons *repositories.PersonRepository) *FamilyHandler {
	return &FamilyHandler{Families: families, Persons: persons}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid id")
	}
	return id, nil
}

// List returns all families in the organization
func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	families, err := h.Families.ListByOrg(r.Context(), middleware.OrgID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if families == nil {
		families = []models.Family{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"families": families})
}

// Get returns one family with its persons
func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	family, err := h.Families.Get(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if family == nil {
		writeError(w, apperrors.NotFound("family not found"))
		return
	}

	persons, err := h.Persons.ListByFamily(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if persons == nil {
		persons = []models.Person{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"family":  family,
		"persons": persons,
	})
}

// Create creates a new family
func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	phone := models.NormalizePhone(req.Phone)
	if phone == "" {
		writeError(w, apperrors.Validation("phone must normalize to 10 digits"))
		return
	}
	if req.DisplayName == "" {
		writeError(w, apperrors.Validation("display_name is required"))
		return
	}

	family := &models.Family{
		OrgID:       middleware.OrgID(r.Context()),
		DisplayName: req.DisplayName,
		Phone:       phone,
		Email:       req.Email,
		IsVolunteer: req.IsVolunteer,
	}
	if err := h.Families.Create(r.Context(), family); err != nil {
		if errors.Is(err, repositories.ErrPhoneTaken) {
			writeError(w, apperrors.Conflict("phone already registered"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, family)
}

// Update updates a family
func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	var req models.UpdateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	family, err := h.Families.Get(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if family == nil {
		writeError(w, apperrors.NotFound("family not found"))
		return
	}

	if req.DisplayName != "" {
		family.DisplayName = req.DisplayName
	}
	if req.Phone != "" {
		phone := models.NormalizePhone(req.Phone)
		if phone == "" {
			writeError(w, apperrors.Validation("phone must normalize to 10 digits"))
			return
		}
		family.Phone = phone
	}
	if req.Email != "" {
		family.Email = req.Email
	}
	if req.IsVolunteer != nil {
		family.IsVolunteer = *req.IsVolunteer
	}

	if err := h.Families.Update(r.Context(), family); err != nil {
		if errors.Is(err, repositories.ErrPhoneTaken) {
			writeError(w, apperrors.Conflict("phone already registered"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// Delete removes a family and its persons
func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	persons, err := h.Persons.ListByFamily(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, p := range persons {
		if err := h.Persons.Delete(r.Context(), orgID, p.ID); err != nil {
			writeError(w, err)
			return
		}
	}

	if err := h.Families.Delete(r.Context(), orgID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, apperrors.NotFound("family not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
