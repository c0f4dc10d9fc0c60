package repositories

import (
	"context"
	"time"

	"checkin-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RosterStore bundles the per-entity repositories into the single store
// abstraction injected into the sync reconciler. It is read-plus-upsert only
// from the reconciler's point of view; all other mutation goes through the
// check-in engine or admin handlers.
type RosterStore struct {
	Organizations *OrganizationRepository
	Families      *FamilyRepository
	Persons       *PersonRepository
	Templates     *TemplateRepository
	Rooms         *RoomRepository
	Rewards       *RewardRepository
	Sessions      *SessionRepository
}

func NewRosterStore(db *pgxpool.Pool) *RosterStore {
	return &RosterStore{
		Organizations: NewOrganizationRepository(db),
		Families:      NewFamilyRepository(db),
		Persons:       NewPersonRepository(db),
		Templates:     NewTemplateRepository(db),
		Rooms:         NewRoomRepository(db),
		Rewards:       NewRewardRepository(db),
		Sessions:      NewSessionRepository(db),
	}
}

func (s *RosterStore) ListFamilies(ctx context.Context, orgID int) ([]models.Family, error) {
	return s.Families.ListByOrg(ctx, orgID)
}

func (s *RosterStore) ListPersons(ctx context.Context, orgID int) ([]models.Person, error) {
	return s.Persons.ListByOrg(ctx, orgID)
}

func (s *RosterStore) ListTemplates(ctx context.Context, orgID int) ([]models.Template, error) {
	return s.Templates.ListByOrg(ctx, orgID)
}

func (s *RosterStore) ListRooms(ctx context.Context, orgID int) ([]models.Room, error) {
	return s.Rooms.ListByOrg(ctx, orgID)
}

func (s *RosterStore) ListRewards(ctx context.Context, orgID int) ([]models.Reward, error) {
	return s.Rewards.ListByOrg(ctx, orgID)
}

func (s *RosterStore) ListSessionsSince(ctx context.Context, orgID int, cutoff time.Time) ([]models.CheckinSession, error) {
	return s.Sessions.ListSince(ctx, orgID, cutoff)
}
