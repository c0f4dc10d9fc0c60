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

type RewardHandler struct {
	Rewards *repositories.RewardRepository
}

func NewRewardHandler(rewards *repositories.RewardRepository) *RewardHandler {
	return &RewardHandler{Rewards: rewards}
}

func validateRewardRequest(req *models.CreateRewardRequest) error {
	if req.TriggerType != models.RewardTriggerStreak && req.TriggerType != models.RewardTriggerTotalCheckins {
		return apperrors.Validation("trigger_type must be streak or total_checkins")
	}
	if req.TriggerValue < 1 {
		return apperrors.Validation("trigger_value must be at least 1")
	}
	if req.Prize == "" {
		return apperrors.Validation("prize is required")
	}
	return nil
}

// List returns all rewards in the organization, presets included
func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.Rewards.ListByOrg(r.Context(), middleware.OrgID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if rewards == nil {
		rewards = []models.Reward{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rewards": rewards})
}

// Create creates a custom reward
func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if err := validateRewardRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	reward := &models.Reward{
		OrgID:        middleware.OrgID(r.Context()),
		TriggerType:  req.TriggerType,
		TriggerValue: req.TriggerValue,
		Prize:        req.Prize,
		Icon:         req.Icon,
		Enabled:      req.Enabled,
	}
	if err := h.Rewards.Create(r.Context(), reward); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reward)
}

// Update edits a reward. Presets can be edited (most commonly toggled off)
// but never deleted.
func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	var req models.CreateRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if err := validateRewardRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	reward, err := h.Rewards.Get(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if reward == nil {
		writeError(w, apperrors.NotFound("reward not found"))
		return
	}

	reward.TriggerType = req.TriggerType
	reward.TriggerValue = req.TriggerValue
	reward.Prize = req.Prize
	reward.Icon = req.Icon
	reward.Enabled = req.Enabled

	if err := h.Rewards.Update(r.Context(), reward); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, apperrors.NotFound("reward not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

// Delete removes a custom reward. Presets report conflict.
func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	orgID := middleware.OrgID(r.Context())

	reward, err := h.Rewards.Get(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if reward == nil {
		writeError(w, apperrors.NotFound("reward not found"))
		return
	}
	if reward.Preset {
		writeError(w, apperrors.Conflict("preset rewards cannot be deleted, disable instead"))
		return
	}

	if err := h.Rewards.Delete(r.Context(), orgID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, apperrors.NotFound("reward not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
