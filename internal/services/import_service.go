package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"checkin-backend/internal/metrics"
	"checkin-backend/internal/models"
	"checkin-backend/internal/repositories"
)

// FamilyStore is the slice of the roster store the importer needs
type FamilyStore interface {
	GetByPhone(ctx context.Context, orgID int, phone string) (*models.Family, error)
	Create(ctx context.Context, family *models.Family) error
}

// PersonCreator assigns a PIN and inserts; satisfied by PinService
type PersonCreator interface {
	CreatePerson(ctx context.Context, p *models.Person) error
}

// ImportService is the sync reconciler's push/import phase: bulk ingestion of
// already-normalized roster records. The normalized phone number is the dedup
// key, which makes re-running the same batch a no-op.
type ImportService struct {
	Families FamilyStore
	Persons  PersonCreator
}

func NewImportService(families FamilyStore, persons PersonCreator) *ImportService {
	return &ImportService{Families: families, Persons: persons}
}

// familyGroup is one family-to-be: records sharing a guardian_ref (or, when
// absent, a phone number)
type familyGroup struct {
	key     string
	records []models.ImportRecord
}

// Import processes a batch of roster records. One family group failing never
// aborts the batch; the summary counts imported, skipped and errored groups.
func (s *ImportService) Import(ctx context.Context, orgID int, records []models.ImportRecord) (*models.ImportSummary, error) {
	summary := &models.ImportSummary{Errors: []models.ImportError{}}

	groups := groupRecords(records)
	log.Printf("[Import] org %d: %d records in %d family groups", orgID, len(records), len(groups))

	for _, group := range groups {
		if err := s.importGroup(ctx, orgID, group, summary); err != nil {
			summary.Errors = append(summary.Errors, models.ImportError{
				GuardianRef: group.records[0].GuardianRef,
				Phone:       group.records[0].Phone,
				Reason:      err.Error(),
			})
			metrics.ImportFamilies.WithLabelValues("errored").Inc()
		}
	}

	log.Printf("[Import] org %d: %d families imported, %d skipped, %d errored",
		orgID, summary.FamiliesImported, summary.FamiliesSkipped, len(summary.Errors))
	return summary, nil
}

func groupRecords(records []models.ImportRecord) []familyGroup {
	index := make(map[string]int)
	var groups []familyGroup
	for _, rec := range records {
		key := rec.GuardianRef
		if key == "" {
			key = models.NormalizePhone(rec.Phone)
		}
		if key == "" {
			// A record with neither guardian ref nor usable phone gets its
			// own group so it surfaces as an individual error
			groups = append(groups, familyGroup{records: []models.ImportRecord{rec}})
			continue
		}
		if i, ok := index[key]; ok {
			groups[i].records = append(groups[i].records, rec)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, familyGroup{key: key, records: []models.ImportRecord{rec}})
	}
	return groups
}

func (s *ImportService) importGroup(ctx context.Context, orgID int, group familyGroup, summary *models.ImportSummary) error {
	first := group.records[0]

	phone := ""
	email := ""
	volunteer := false
	for _, rec := range group.records {
		if phone == "" {
			phone = models.NormalizePhone(rec.Phone)
		}
		if email == "" {
			email = rec.Email
		}
		if rec.IsVolunteer {
			volunteer = true
		}
	}
	if phone == "" {
		return errors.New("no valid 10-digit phone number")
	}

	existing, err := s.Families.GetByPhone(ctx, orgID, phone)
	if err != nil {
		return err
	}
	if existing != nil {
		summary.FamiliesSkipped++
		metrics.ImportFamilies.WithLabelValues("skipped").Inc()
		return nil
	}

	family := &models.Family{
		OrgID:       orgID,
		DisplayName: familyDisplayName(first),
		Phone:       phone,
		Email:       email,
		IsVolunteer: volunteer,
	}
	if err := s.Families.Create(ctx, family); err != nil {
		// A concurrent import of the same batch can win the phone-dedup race
		// between the GetByPhone check and this insert; the family exists, so
		// the group counts as skipped rather than errored.
		if errors.Is(err, repositories.ErrPhoneTaken) {
			summary.FamiliesSkipped++
			metrics.ImportFamilies.WithLabelValues("skipped").Inc()
			return nil
		}
		return err
	}
	summary.FamiliesImported++
	metrics.ImportFamilies.WithLabelValues("imported").Inc()

	for _, rec := range group.records {
		person := &models.Person{
			OrgID:       orgID,
			FamilyID:    family.ID,
			FirstName:   strings.TrimSpace(rec.FirstName),
			LastName:    strings.TrimSpace(rec.LastName),
			DisplayName: strings.TrimSpace(rec.FirstName + " " + rec.LastName),
			BirthDate:   parseBirthDate(rec.BirthDate),
		}
		if person.FirstName == "" {
			summary.Errors = append(summary.Errors, models.ImportError{
				GuardianRef: rec.GuardianRef,
				Phone:       rec.Phone,
				Reason:      "first name is required",
			})
			continue
		}
		if err := s.Persons.CreatePerson(ctx, person); err != nil {
			summary.Errors = append(summary.Errors, models.ImportError{
				GuardianRef: rec.GuardianRef,
				Phone:       rec.Phone,
				Reason:      "person insert failed: " + err.Error(),
			})
			continue
		}
		summary.PersonsImported++
	}
	return nil
}

func familyDisplayName(rec models.ImportRecord) string {
	last := strings.TrimSpace(rec.LastName)
	if last == "" {
		return strings.TrimSpace(rec.FirstName) + " Family"
	}
	return last + " Family"
}

// parseBirthDate accepts YYYY-MM-DD; anything else is treated as absent,
// which sends PIN assignment down the random path
func parseBirthDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

