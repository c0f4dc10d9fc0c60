package models

import "time"

// Reward trigger types
const (
	RewardTriggerStreak        = "streak"
	RewardTriggerTotalCheckins = "total_checkins"
)

// Reward fires when a person's counter reaches exactly TriggerValue.
// Preset rewards ship with the system and cannot be deleted, only disabled.
type Reward struct {
	ID           int       `json:"id"`
	OrgID        int       `json:"org_id"`
	TriggerType  string    `json:"trigger_type"`
	TriggerValue int       `json:"trigger_value"`
	Prize        string    `json:"prize"`
	Icon         string    `json:"icon"`
	Enabled      bool      `json:"enabled"`
	Preset       bool      `json:"preset"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RewardGrant records a milestone earned at a specific session. A streak that
// resets and climbs back earns the milestone again under a new session.
type RewardGrant struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	RewardID  int       `json:"reward_id"`
	PersonID  int       `json:"person_id"`
	Milestone int       `json:"milestone"` // counter value at firing time
	SessionID int       `json:"session_id"`
	GrantedAt time.Time `json:"granted_at"`
}

// CreateRewardRequest for creating a new reward
type CreateRewardRequest struct {
	TriggerType  string `json:"trigger_type"`
	TriggerValue int    `json:"trigger_value"`
	Prize        string `json:"prize"`
	Icon         string `json:"icon"`
	Enabled      bool   `json:"enabled"`
}
