package models

import "time"

// Organization is the tenant boundary. Every other entity carries its
// organization id and is never visible across tenants.
type Organization struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	SubscriptionState string    `json:"subscription_state"` // active, trial, suspended
	APISecretHash     string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Subscription states an organization can be in
var SubscriptionStates = []string{
	"trial",
	"active",
	"suspended",
}

// CreateOrganizationRequest for onboarding a new organization
type CreateOrganizationRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	APISecret string `json:"api_secret"`
}
