package models

import "time"

// Template is a recurring service/event definition check-ins occur against.
// StreakResetDays is the maximum gap between check-ins before a person's
// streak resets to 1.
type Template struct {
	ID              int       `json:"id"`
	OrgID           int       `json:"org_id"`
	Name            string    `json:"name"`
	DayOfWeek       int       `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime       string    `json:"start_time"`  // HH:MM, 24h
	EndTime         string    `json:"end_time"`
	RoomIDs         []int     `json:"room_ids"`
	CheckoutEnabled bool      `json:"checkout_enabled"`
	StreakResetDays int       `json:"streak_reset_days"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateTemplateRequest for creating a new template
type CreateTemplateRequest struct {
	Name            string `json:"name"`
	DayOfWeek       int    `json:"day_of_week"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	RoomIDs         []int  `json:"room_ids"`
	CheckoutEnabled bool   `json:"checkout_enabled"`
	StreakResetDays int    `json:"streak_reset_days"`
}

// Room is a capacity-bounded physical space referenced by templates.
// Capacity limits the number of concurrently open sessions in the room.
type Room struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRoomRequest for creating a new room
type CreateRoomRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}
