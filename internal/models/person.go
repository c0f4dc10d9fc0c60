package models

import "time"

// Person is a child or volunteer belonging to a Family. The PIN is unique
// within the organization and assigned once at creation. Age is derived from
// the birth date on read and never stored as authoritative.
type Person struct {
	ID            int        `json:"id"`
	OrgID         int        `json:"org_id"`
	FamilyID      int        `json:"family_id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	DisplayName   string     `json:"display_name"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Age           *int       `json:"age,omitempty"`
	Gender        string     `json:"gender"`
	PIN           string     `json:"pin"`
	AvatarTag     string     `json:"avatar_tag"`
	Notes         string     `json:"notes"` // allergies and pickup notes
	Streak        int        `json:"streak"`
	BadgeCount    int        `json:"badge_count"`
	TotalCheckins int        `json:"total_checkins"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ComputeAge fills the derived Age field from BirthDate as of the given time.
// Persons without a birth date keep Age nil.
func (p *Person) ComputeAge(now time.Time) {
	if p.BirthDate == nil {
		p.Age = nil
		return
	}
	age := now.Year() - p.BirthDate.Year()
	anniversary := time.Date(now.Year(), p.BirthDate.Month(), p.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(anniversary) {
		age--
	}
	if age < 0 {
		age = 0
	}
	p.Age = &age
}

// CreatePersonRequest for creating a new person
type CreatePersonRequest struct {
	FamilyID    int    `json:"family_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	BirthDate   string `json:"birth_date"` // YYYY-MM-DD, optional
	Gender      string `json:"gender"`
	AvatarTag   string `json:"avatar_tag"`
	Notes       string `json:"notes"`
}

// UpdatePersonRequest for updating a person. PIN is never touched by edits;
// regeneration has its own endpoint.
type UpdatePersonRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	BirthDate   string `json:"birth_date"`
	Gender      string `json:"gender"`
	AvatarTag   string `json:"avatar_tag"`
	Notes       string `json:"notes"`
}
