package models

import "time"

// CheckinSession is one attendance record. ClosedAt null means the session is
// currently open; a person has at most one open session at a time. The pickup
// code is issued at open, immutable, and must match exactly at close.
type CheckinSession struct {
	ID         int        `json:"id"`
	OrgID      int        `json:"org_id"`
	PersonID   int        `json:"person_id"`
	FamilyID   int        `json:"family_id"`
	TemplateID int        `json:"template_id"`
	RoomID     int        `json:"room_id"`
	PickupCode string     `json:"pickup_code"`
	OpenedAt   time.Time  `json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`

	// Denormalized for open-session listings
	PersonName   string `json:"person_name,omitempty"`
	RoomName     string `json:"room_name,omitempty"`
	TemplateName string `json:"template_name,omitempty"`
}

// OpenSessionRequest for checking a person in
type OpenSessionRequest struct {
	PersonID   int `json:"person_id"`
	TemplateID int `json:"template_id"`
	RoomID     int `json:"room_id"`
}

// CloseSessionRequest for checking a person out
type CloseSessionRequest struct {
	PersonID   int    `json:"person_id"`
	PickupCode string `json:"pickup_code"`
}
