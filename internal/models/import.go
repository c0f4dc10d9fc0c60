package models

// ImportRecord is one normalized roster row handed to the bulk importer.
// Records sharing a GuardianRef are grouped into a single family; the caller
// resolves guardianship from whatever source format it parsed.
type ImportRecord struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	BirthDate   string `json:"birth_date,omitempty"` // YYYY-MM-DD, optional
	GuardianRef string `json:"guardian_ref,omitempty"`
	IsVolunteer bool   `json:"is_volunteer,omitempty"`
}

// ImportRequest is the bulk import payload
type ImportRequest struct {
	Records []ImportRecord `json:"records"`
}

// ImportError describes one family group that failed to import
type ImportError struct {
	GuardianRef string `json:"guardian_ref"`
	Phone       string `json:"phone"`
	Reason      string `json:"reason"`
}

// ImportSummary reports the outcome of a bulk import. A re-run of the same
// batch yields everything in Skipped and nothing in Imported.
type ImportSummary struct {
	FamiliesImported int           `json:"families_imported"`
	FamiliesSkipped  int           `json:"families_skipped"`
	PersonsImported  int           `json:"persons_imported"`
	Errors           []ImportError `json:"errors"`
}
