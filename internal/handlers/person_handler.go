package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/middleware"
	"checkin-backend/internal/models"
	"checkin-backend/internal/repositories"
	"checkin-backend/internal/services"

	"github.com/jackc/pgx/v5"
)

type PersonHandler struct {
	Persons  *repositories.PersonRepository
	Families *repositories.FamilyRepository
	Rewards  *repositories.RewardRepository
	Pins     *services.PinService
}

func NewPersonHandler(persons *repositories.PersonRepository, families *repositories.FamilyRepository, rewards *repositories.RewardRepository, pins *services.PinService) *PersonHandler {
	return &PersonHandler{Persons: persons, Families: families, Rewards: rewards, Pins: pins}
}

// List returns all persons in the organization with derived ages
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	persons, err := h.Persons.ListByOrg(r.Context(), middleware.OrgID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	now := time.Now()
	for i := range persons {
		persons[i].ComputeAge(now)
	}
	if persons == nil {
		persons = []models.Person{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"persons": persons})
}

// Get returns one person with reward grants
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	person, err := h.Persons.Get(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if person == nil {
		writeError(w, apperrors.NotFound("person not found"))
		return
	}
	person.ComputeAge(time.Now())

	grants, err := h.Rewards.ListGrantsByPerson(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if grants == nil {
		grants = []models.RewardGrant{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"person": person,
		"grants": grants,
	})
}

// Create creates a person and assigns a PIN
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.FirstName == "" {
		writeError(w, apperrors.Validation("first_name is required"))
		return
	}
	orgID := middleware.OrgID(r.Context())

	family, err := h.Families.Get(r.Context(), orgID, req.FamilyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if family == nil {
		writeError(w, apperrors.NotFound("family not found"))
		return
	}

	person := &models.Person{
		OrgID:       orgID,
		FamilyID:    req.FamilyID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		AvatarTag:   req.AvatarTag,
		Notes:       req.Notes,
	}
	if person.DisplayName == "" {
		person.DisplayName = req.FirstName
	}
	if req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			writeError(w, apperrors.Validation("birth_date must be YYYY-MM-DD"))
			return
		}
		person.BirthDate = &birth
	}

	if err := h.Pins.CreatePerson(r.Context(), person); err != nil {
		writeError(w, err)
		return
	}
	person.ComputeAge(time.Now())
	writeJSON(w, http.StatusCreated, person)
}

// Update edits person fields. The PIN and counters are never editable here.
func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	var req models.UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	person, err := h.Persons.Get(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if person == nil {
		writeError(w, apperrors.NotFound("person not found"))
		return
	}

	if req.FirstName != "" {
		person.FirstName = req.FirstName
	}
	if req.LastName != "" {
		person.LastName = req.LastName
	}
	if req.DisplayName != "" {
		person.DisplayName = req.DisplayName
	}
	if req.Gender != "" {
		person.Gender = req.Gender
	}
	if req.AvatarTag != "" {
		person.AvatarTag = req.AvatarTag
	}
	if req.Notes != "" {
		person.Notes = req.Notes
	}
	if req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			writeError(w, apperrors.Validation("birth_date must be YYYY-MM-DD"))
			return
		}
		person.BirthDate = &birth
	}

	if err := h.Persons.Update(r.Context(), person); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, apperrors.NotFound("person not found"))
			return
		}
		writeError(w, err)
		return
	}
	person.ComputeAge(time.Now())
	writeJSON(w, http.StatusOK, person)
}

// Delete removes a person
func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Persons.Delete(r.Context(), middleware.OrgID(r.Context()), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, apperrors.NotFound("person not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// RegeneratePIN assigns a fresh PIN to the person
func (h *PersonHandler) RegeneratePIN(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	newPIN, err := h.Pins.Regenerate(r.Context(), middleware.OrgID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pin": newPIN})
}
