package services

import (
	"context"
	"errors"
	"fmt"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/models"
	"checkin-backend/internal/pin"
	"checkin-backend/internal/repositories"
)

// PersonStore is the slice of the roster store the PIN registry needs
type PersonStore interface {
	Insert(ctx context.Context, p *models.Person) error
	UpdatePIN(ctx context.Context, orgID, id int, newPIN string) error
	Get(ctx context.Context, orgID, id int) (*models.Person, error)
	CountByOrg(ctx context.Context, orgID int) (int, error)
}

// PinService is the identity/PIN registry. It never holds the set of
// assigned PINs in memory; uniqueness lives in the (org_id, pin) constraint
// and the registry just walks the candidate sequence until an insert lands.
type PinService struct {
	Persons PersonStore
}

func NewPinService(persons PersonStore) *PinService {
	return &PinService{Persons: persons}
}

const (
	// Derived candidates tried before switching to pure random. Covers the
	// base PIN plus suffix counters well past the single-digit range.
	derivedAttempts = 20
	// Overall cap before concluding the org's PIN space is effectively gone
	maxAssignAttempts = 60
)

func (s *PinService) candidate(p *models.Person, attempt int) string {
	if attempt >= derivedAttempts {
		return pin.Random()
	}
	return pin.Candidate(p.BirthDate, attempt)
}

// CreatePerson assigns a PIN and inserts the person, retrying on collisions
// within the organization
func (s *PinService) CreatePerson(ctx context.Context, p *models.Person) error {
	for attempt := 0; attempt < maxAssignAttempts; attempt++ {
		p.PIN = s.candidate(p, attempt)
		err := s.Persons.Insert(ctx, p)
		if errors.Is(err, repositories.ErrPINTaken) {
			continue
		}
		return err
	}
	return s.exhausted(ctx, p.OrgID)
}

// Regenerate replaces a person's PIN on explicit request. Edits never call
// this; assignment is otherwise once per person.
func (s *PinService) Regenerate(ctx context.Context, orgID, personID int) (string, error) {
	person, err := s.Persons.Get(ctx, orgID, personID)
	if err != nil {
		return "", err
	}
	if person == nil {
		return "", apperrors.NotFound("person not found")
	}

	for attempt := 0; attempt < maxAssignAttempts; attempt++ {
		newPIN := s.candidate(person, attempt)
		if newPIN == person.PIN {
			continue
		}
		err := s.Persons.UpdatePIN(ctx, orgID, personID, newPIN)
		if errors.Is(err, repositories.ErrPINTaken) {
			continue
		}
		if err != nil {
			return "", err
		}
		return newPIN, nil
	}
	return "", s.exhausted(ctx, orgID)
}

func (s *PinService) exhausted(ctx context.Context, orgID int) error {
	count, err := s.Persons.CountByOrg(ctx, orgID)
	if err != nil {
		return apperrors.Internal("pin assignment failed", err)
	}
	if count >= pin.MaxPerOrg {
		return apperrors.Exhausted(fmt.Sprintf("organization %d has no free PINs", orgID))
	}
	// Random assignment losing 60 straight races is not plausible below the
	// exhaustion threshold; something else is wrong.
	return apperrors.Internal("pin assignment failed after repeated collisions", nil)
}
