package models

import "time"

// CheckedInEvent is the payload the print/label layer consumes after a
// successful check-in. Delivery is fire-and-forget; the session engine never
// blocks on or retries it.
type CheckedInEvent struct {
	EventID      string    `json:"event_id"`
	OrgID        int       `json:"org_id"`
	SessionID    int       `json:"session_id"`
	PersonName   string    `json:"person_name"`
	PIN          string    `json:"pin"`
	PickupCode   string    `json:"pickup_code"`
	AvatarTag    string    `json:"avatar_tag"`
	RoomName     string    `json:"room_name"`
	TemplateName string    `json:"template_name"`
	Notes        string    `json:"notes"`
	Streak       int       `json:"streak"`
	RewardsFired []string  `json:"rewards_fired,omitempty"`
	OpenedAt     time.Time `json:"opened_at"`
}
