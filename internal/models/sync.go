package models

import "time"

// SyncSnapshot is the pull-phase payload: every org-scoped roster row plus
// check-in sessions from the retention window, keyed by primary id. The kiosk
// upserts rows by id and never deletes locally on pull.
type SyncSnapshot struct {
	BatchID       string           `json:"batch_id"`
	OrgID         int              `json:"org_id"`
	GeneratedAt   time.Time        `json:"generated_at"`
	RetentionDays int              `json:"retention_days"`
	Families      []Family         `json:"families"`
	Persons       []Person         `json:"persons"`
	Templates     []Template       `json:"templates"`
	Rooms         []Room           `json:"rooms"`
	Rewards       []Reward         `json:"rewards"`
	Sessions      []CheckinSession `json:"sessions"`
}

// SyncResult reports how many rows a snapshot application touched locally
type SyncResult struct {
	BatchID     string `json:"batch_id"`
	RowsApplied int    `json:"rows_applied"`
}
