package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/models"
	"checkin-backend/internal/repositories"
)

// fakePersonStore enforces (org_id, pin) uniqueness in memory, the same
// contract the real store gets from its unique index
type fakePersonStore struct {
	pins    map[string]bool // "org:pin"
	persons map[int]*models.Person
	nextID  int
	count   int
}

func newFakePersonStore() *fakePersonStore {
	return &fakePersonStore{
		pins:    make(map[string]bool),
		persons: make(map[int]*models.Person),
		nextID:  1,
	}
}

func (f *fakePersonStore) key(orgID int, pin string) string {
	return strconv.Itoa(orgID) + ":" + pin
}

func (f *fakePersonStore) Insert(_ context.Context, p *models.Person) error {
	if f.pins[f.key(p.OrgID, p.PIN)] {
		return repositories.ErrPINTaken
	}
	f.pins[f.key(p.OrgID, p.PIN)] = true
	p.ID = f.nextID
	f.nextID++
	copied := *p
	f.persons[p.ID] = &copied
	f.count++
	return nil
}

func (f *fakePersonStore) UpdatePIN(_ context.Context, orgID, id int, newPIN string) error {
	if f.pins[f.key(orgID, newPIN)] {
		return repositories.ErrPINTaken
	}
	p := f.persons[id]
	delete(f.pins, f.key(orgID, p.PIN))
	f.pins[f.key(orgID, newPIN)] = true
	p.PIN = newPIN
	return nil
}

func (f *fakePersonStore) Get(_ context.Context, orgID, id int) (*models.Person, error) {
	p, ok := f.persons[id]
	if !ok || p.OrgID != orgID {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakePersonStore) CountByOrg(_ context.Context, _ int) (int, error) {
	return f.count, nil
}

func birthPtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCreatePerson_DerivesFromBirthDate(t *testing.T) {
	store := newFakePersonStore()
	svc := NewPinService(store)

	p := &models.Person{OrgID: 1, FirstName: "Ada", BirthDate: birthPtr(2013, time.November, 17)}
	require.NoError(t, svc.CreatePerson(context.Background(), p))
	assert.Equal(t, "111713", p.PIN)
}

func TestCreatePerson_CollisionWalksSuffixes(t *testing.T) {
	store := newFakePersonStore()
	svc := NewPinService(store)
	ctx := context.Background()

	birth := birthPtr(2013, time.November, 17)
	first := &models.Person{OrgID: 1, FirstName: "Ada", BirthDate: birth}
	require.NoError(t, svc.CreatePerson(ctx, first))

	second := &models.Person{OrgID: 1, FirstName: "Ben", BirthDate: birth}
	require.NoError(t, svc.CreatePerson(ctx, second))
	assert.Equal(t, "111711", second.PIN)

	third := &models.Person{OrgID: 1, FirstName: "Cal", BirthDate: birth}
	require.NoError(t, svc.CreatePerson(ctx, third))
	assert.Equal(t, "111712", third.PIN)
}

func TestCreatePerson_SameBirthDateDifferentOrgsNoCollision(t *testing.T) {
	store := newFakePersonStore()
	svc := NewPinService(store)
	ctx := context.Background()

	birth := birthPtr(2013, time.November, 17)
	a := &models.Person{OrgID: 1, FirstName: "Ada", BirthDate: birth}
	b := &models.Person{OrgID: 2, FirstName: "Ben", BirthDate: birth}
	require.NoError(t, svc.CreatePerson(ctx, a))
	require.NoError(t, svc.CreatePerson(ctx, b))
	assert.Equal(t, "111713", a.PIN)
	assert.Equal(t, "111713", b.PIN)
}

func TestCreatePerson_NoBirthDateGetsRandomPIN(t *testing.T) {
	store := newFakePersonStore()
	svc := NewPinService(store)

	p := &models.Person{OrgID: 1, FirstName: "Ada"}
	require.NoError(t, svc.CreatePerson(context.Background(), p))
	assert.Len(t, p.PIN, 6)
}

func TestCreatePerson_ExhaustedSpace(t *testing.T) {
	store := newFakePersonStore()
	store.count = 1000000
	// Every insert collides
	stuck := &alwaysTakenStore{fakePersonStore: store}
	svc := NewPinService(stuck)

	p := &models.Person{OrgID: 1, FirstName: "Ada"}
	err := svc.CreatePerson(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindExhaustion))
}

func TestCreatePerson_RepeatedCollisionsBelowThresholdIsInternal(t *testing.T) {
	store := newFakePersonStore()
	stuck := &alwaysTakenStore{fakePersonStore: store}
	svc := NewPinService(stuck)

	p := &models.Person{OrgID: 1, FirstName: "Ada"}
	err := svc.CreatePerson(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInternal))
}

type alwaysTakenStore struct {
	*fakePersonStore
}

func (s *alwaysTakenStore) Insert(context.Context, *models.Person) error {
	return repositories.ErrPINTaken
}

func (s *alwaysTakenStore) UpdatePIN(context.Context, int, int, string) error {
	return repositories.ErrPINTaken
}

func TestRegenerate_AssignsDifferentPIN(t *testing.T) {
	store := newFakePersonStore()
	svc := NewPinService(store)
	ctx := context.Background()

	p := &models.Person{OrgID: 1, FirstName: "Ada", BirthDate: birthPtr(2013, time.November, 17)}
	require.NoError(t, svc.CreatePerson(ctx, p))
	require.Equal(t, "111713", p.PIN)

	newPIN, err := svc.Regenerate(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "111713", newPIN)
	assert.Equal(t, "111711", newPIN, "the derived sequence skips the current PIN")

	fresh, _ := store.Get(ctx, 1, p.ID)
	assert.Equal(t, newPIN, fresh.PIN)
}

func TestRegenerate_UnknownPerson(t *testing.T) {
	svc := NewPinService(newFakePersonStore())
	_, err := svc.Regenerate(context.Background(), 1, 42)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
