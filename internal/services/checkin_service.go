package services

import (
	"context"
	"errors"
	"time"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/metrics"
	"checkin-backend/internal/models"
	"checkin-backend/internal/pin"
	"checkin-backend/internal/repositories"

	"github.com/google/uuid"
)

// SessionStore is the transactional slice of the roster store the check-in
// engine drives. Open and Close are all-or-nothing: either the full
// transition (session + counters + reward grants) committed or none of it.
type SessionStore interface {
	Open(ctx context.Context, p repositories.OpenParams) (*repositories.OpenResult, error)
	Close(ctx context.Context, orgID, personID int, pickupCode string, now time.Time) (*models.CheckinSession, error)
	ListOpenByOrg(ctx context.Context, orgID int) ([]models.CheckinSession, error)
}

// PersonLookup is the kiosk-facing read path
type PersonLookup interface {
	GetByPIN(ctx context.Context, orgID int, pin string) (*models.Person, error)
}

// EventPublisher receives CheckedIn payloads for the print/label layer.
// Publishing must never block the check-in path.
type EventPublisher interface {
	Publish(event models.CheckedInEvent)
}

type CheckinService struct {
	Sessions SessionStore
	Persons  PersonLookup
	Events   EventPublisher
}

func NewCheckinService(sessions SessionStore, persons PersonLookup, events EventPublisher) *CheckinService {
	return &CheckinService{Sessions: sessions, Persons: persons, Events: events}
}

// openAttempts bounds retries when a generated pickup code races another
// open session for the same code
const openAttempts = 5

// OpenSession performs the Absent -> CheckedIn transition and returns the
// session with its pickup code plus everything the label printer needs
func (s *CheckinService) OpenSession(ctx context.Context, orgID int, req *models.OpenSessionRequest) (*models.CheckedInEvent, error) {
	if orgID <= 0 {
		return nil, apperrors.Unauthorized("missing organization scope")
	}
	if req.PersonID <= 0 || req.TemplateID <= 0 || req.RoomID <= 0 {
		return nil, apperrors.Validation("person_id, template_id and room_id are required")
	}

	var result *repositories.OpenResult
	var err error
	for attempt := 0; attempt < openAttempts; attempt++ {
		result, err = s.Sessions.Open(ctx, repositories.OpenParams{
			OrgID:      orgID,
			PersonID:   req.PersonID,
			TemplateID: req.TemplateID,
			RoomID:     req.RoomID,
			PickupCode: GeneratePickupCode(),
			Now:        time.Now().UTC(),
		})
		if errors.Is(err, repositories.ErrPickupCodeTaken) {
			continue
		}
		break
	}
	if err != nil {
		mapped := mapSessionError(err)
		metrics.CheckinRejections.WithLabelValues(string(apperrors.KindOf(mapped))).Inc()
		return nil, mapped
	}

	metrics.CheckinsOpened.Inc()
	if n := len(result.Fired); n > 0 {
		metrics.RewardsFired.Add(float64(n))
	}

	event := buildCheckedInEvent(result)
	if s.Events != nil {
		s.Events.Publish(event)
	}
	return &event, nil
}

// CloseSession performs the CheckedIn -> CheckedOut transition; the supplied
// pickup code must exactly match the one issued at open
func (s *CheckinService) CloseSession(ctx context.Context, orgID int, req *models.CloseSessionRequest) (*models.CheckinSession, error) {
	if orgID <= 0 {
		return nil, apperrors.Unauthorized("missing organization scope")
	}
	if req.PersonID <= 0 || req.PickupCode == "" {
		return nil, apperrors.Validation("person_id and pickup_code are required")
	}

	session, err := s.Sessions.Close(ctx, orgID, req.PersonID, req.PickupCode, time.Now().UTC())
	if err != nil {
		mapped := mapSessionError(err)
		metrics.CheckinRejections.WithLabelValues(string(apperrors.KindOf(mapped))).Inc()
		return nil, mapped
	}

	metrics.CheckinsClosed.Inc()
	return session, nil
}

// LookupPerson resolves a PIN to a person for the kiosk
func (s *CheckinService) LookupPerson(ctx context.Context, orgID int, pinValue string) (*models.Person, error) {
	if orgID <= 0 {
		return nil, apperrors.Unauthorized("missing organization scope")
	}
	if len(pinValue) != pin.Length {
		return nil, apperrors.Validation("pin must be 6 digits")
	}

	person, err := s.Persons.GetByPIN(ctx, orgID, pinValue)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, apperrors.NotFound("no person with that pin")
	}
	person.ComputeAge(time.Now().UTC())
	return person, nil
}

// ListOpenSessions returns the org's currently open sessions
func (s *CheckinService) ListOpenSessions(ctx context.Context, orgID int) ([]models.CheckinSession, error) {
	if orgID <= 0 {
		return nil, apperrors.Unauthorized("missing organization scope")
	}
	return s.Sessions.ListOpenByOrg(ctx, orgID)
}

func buildCheckedInEvent(result *repositories.OpenResult) models.CheckedInEvent {
	event := models.CheckedInEvent{
		EventID:      uuid.NewString(),
		OrgID:        result.Session.OrgID,
		SessionID:    result.Session.ID,
		PersonName:   result.Person.DisplayName,
		PIN:          result.Person.PIN,
		PickupCode:   result.Session.PickupCode,
		AvatarTag:    result.Person.AvatarTag,
		RoomName:     result.RoomName,
		TemplateName: result.TemplateName,
		Notes:        result.Person.Notes,
		Streak:       result.Person.Streak,
		OpenedAt:     result.Session.OpenedAt,
	}
	if event.PersonName == "" {
		event.PersonName = result.Person.FirstName + " " + result.Person.LastName
	}
	for _, r := range result.Fired {
		event.RewardsFired = append(event.RewardsFired, r.Prize)
	}
	return event
}

// mapSessionError translates storage-layer sentinels into the structured
// error taxonomy handlers expose
func mapSessionError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPersonNotFound):
		return apperrors.NotFound("person not found")
	case errors.Is(err, repositories.ErrTemplateNotFound):
		return apperrors.NotFound("template not found")
	case errors.Is(err, repositories.ErrRoomNotFound):
		return apperrors.NotFound("room not found")
	case errors.Is(err, repositories.ErrTemplateInactive):
		return apperrors.Validation("template is not active")
	case errors.Is(err, repositories.ErrAlreadyOpen):
		return apperrors.Conflict("person already checked in")
	case errors.Is(err, repositories.ErrRoomFull):
		return apperrors.Capacity("room is at capacity")
	case errors.Is(err, repositories.ErrNoOpenSession):
		return apperrors.Conflict("no open session for person")
	case errors.Is(err, repositories.ErrCodeMismatch):
		return apperrors.Conflict("pickup code does not match")
	case errors.Is(err, repositories.ErrCheckoutDisabled):
		return apperrors.Validation("checkout is disabled for this template")
	case errors.Is(err, repositories.ErrPickupCodeTaken):
		return apperrors.Internal("could not allocate a pickup code", err)
	default:
		return err
	}
}
