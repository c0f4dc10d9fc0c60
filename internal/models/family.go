package models

import "time"

// Family owns zero-or-more Persons. Phone is stored in canonical 10-digit
// form and is unique within an organization; it is the dedup key for bulk
// roster imports.
type Family struct {
	ID          int       `json:"id"`
	OrgID       int       `json:"org_id"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	IsVolunteer bool      `json:"is_volunteer"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateFamilyRequest for creating a new family
type CreateFamilyRequest struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	IsVolunteer bool   `json:"is_volunteer"`
}

// UpdateFamilyRequest for updating a family
type UpdateFamilyRequest struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	IsVolunteer *bool  `json:"is_volunteer"`
}
