package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/internal/models"
	"checkin-backend/internal/repositories"
)

type fakeFamilyStore struct {
	byPhone map[string]*models.Family
	nextID  int

	// createRaces simulates another import inserting the same phone between
	// the GetByPhone check and Create
	createRaces int
}

func newFakeFamilyStore() *fakeFamilyStore {
	return &fakeFamilyStore{byPhone: make(map[string]*models.Family), nextID: 1}
}

func (f *fakeFamilyStore) GetByPhone(_ context.Context, orgID int, phone string) (*models.Family, error) {
	fam, ok := f.byPhone[phone]
	if !ok || fam.OrgID != orgID {
		return nil, nil
	}
	copied := *fam
	return &copied, nil
}

func (f *fakeFamilyStore) Create(_ context.Context, family *models.Family) error {
	if f.createRaces > 0 {
		f.createRaces--
		return repositories.ErrPhoneTaken
	}
	family.ID = f.nextID
	f.nextID++
	copied := *family
	f.byPhone[family.Phone] = &copied
	return nil
}

type fakePersonCreator struct {
	created []models.Person
	failOn  string // first name that fails
}

func (f *fakePersonCreator) CreatePerson(_ context.Context, p *models.Person) error {
	if f.failOn != "" && p.FirstName == f.failOn {
		return assert.AnError
	}
	p.ID = len(f.created) + 1
	p.PIN = "000000"
	f.created = append(f.created, *p)
	return nil
}

func importFixture() (*ImportService, *fakeFamilyStore, *fakePersonCreator) {
	families := newFakeFamilyStore()
	persons := &fakePersonCreator{}
	return NewImportService(families, persons), families, persons
}

func TestImport_GroupsByGuardianRef(t *testing.T) {
	svc, families, persons := importFixture()

	records := []models.ImportRecord{
		{FirstName: "Ada", LastName: "Lovell", Phone: "(555) 123-4567", GuardianRef: "g1"},
		{FirstName: "Ben", LastName: "Lovell", GuardianRef: "g1"},
		{FirstName: "Cal", LastName: "Ng", Phone: "555.987.6543", GuardianRef: "g2"},
	}

	summary, err := svc.Import(context.Background(), 1, records)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FamiliesImported)
	assert.Equal(t, 0, summary.FamiliesSkipped)
	assert.Equal(t, 3, summary.PersonsImported)
	assert.Empty(t, summary.Errors)

	fam := families.byPhone["5551234567"]
	require.NotNil(t, fam)
	assert.Equal(t, "Lovell Family", fam.DisplayName)

	// Siblings land in the same family
	assert.Equal(t, persons.created[0].FamilyID, persons.created[1].FamilyID)
	assert.NotEqual(t, persons.created[0].FamilyID, persons.created[2].FamilyID)
}

func TestImport_GroupsByPhoneWithoutGuardianRef(t *testing.T) {
	svc, _, persons := importFixture()

	records := []models.ImportRecord{
		{FirstName: "Ada", LastName: "Lovell", Phone: "5551234567"},
		{FirstName: "Ben", LastName: "Lovell", Phone: "(555) 123-4567"},
	}

	summary, err := svc.Import(context.Background(), 1, records)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FamiliesImported)
	assert.Equal(t, 2, summary.PersonsImported)
	assert.Equal(t, persons.created[0].FamilyID, persons.created[1].FamilyID)
}

func TestImport_RerunIsIdempotent(t *testing.T) {
	svc, _, _ := importFixture()
	ctx := context.Background()

	records := []models.ImportRecord{
		{FirstName: "Ada", LastName: "Lovell", Phone: "5551234567"},
		{FirstName: "Cal", LastName: "Ng", Phone: "5559876543"},
	}

	first, err := svc.Import(ctx, 1, records)
	require.NoError(t, err)
	assert.Equal(t, 2, first.FamiliesImported)

	second, err := svc.Import(ctx, 1, records)
	require.NoError(t, err)
	assert.Equal(t, 0, second.FamiliesImported)
	assert.Equal(t, 2, second.FamiliesSkipped)
	assert.Equal(t, 0, second.PersonsImported)
	assert.Empty(t, second.Errors)
}

func TestImport_LostPhoneRaceCountsAsSkipped(t *testing.T) {
	svc, families, _ := importFixture()
	families.createRaces = 1

	records := []models.ImportRecord{
		{FirstName: "Ada", LastName: "Lovell", Phone: "5551234567"},
	}

	summary, err := svc.Import(context.Background(), 1, records)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.FamiliesImported)
	assert.Equal(t, 1, summary.FamiliesSkipped)
	assert.Empty(t, summary.Errors, "losing the insert race is not an error")
}

func TestImport_MissingPhoneIsGroupError(t *testing.T) {
	svc, _, _ := importFixture()

	records := []models.ImportRecord{
		{FirstName: "Ada", LastName: "Lovell", Phone: "123"},
		{FirstName: "Cal", LastName: "Ng", Phone: "5559876543"},
	}

	summary, err := svc.Import(context.Background(), 1, records)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FamiliesImported)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "123", summary.Errors[0].Phone)
}

func TestImport_PersonFailureDoesNotAbortBatch(t *testing.T) {
	svc, _, persons := importFixture()
	persons.failOn = "Ben"

	records := []models.ImportRecord{
		{FirstName: "Ada", LastName: "Lovell", Phone: "5551234567", GuardianRef: "g1"},
		{FirstName: "Ben", LastName: "Lovell", GuardianRef: "g1"},
		{FirstName: "Cal", LastName: "Ng", Phone: "5559876543"},
	}

	summary, err := svc.Import(context.Background(), 1, records)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FamiliesImported)
	assert.Equal(t, 2, summary.PersonsImported)
	require.Len(t, summary.Errors, 1)
}

func TestImport_VolunteerFlagPropagates(t *testing.T) {
	svc, families, _ := importFixture()

	records := []models.ImportRecord{
		{FirstName: "Ada", LastName: "Lovell", Phone: "5551234567", GuardianRef: "g1"},
		{FirstName: "Dana", LastName: "Lovell", GuardianRef: "g1", IsVolunteer: true},
	}

	_, err := svc.Import(context.Background(), 1, records)
	require.NoError(t, err)
	assert.True(t, families.byPhone["5551234567"].IsVolunteer)
}

func TestImport_BirthDatePropagatesToPersons(t *testing.T) {
	svc, _, persons := importFixture()

	records := []models.ImportRecord{
		{FirstName: "Ada", LastName: "Lovell", Phone: "5551234567", BirthDate: "2013-11-17"},
		{FirstName: "Ben", LastName: "Lovell", Phone: "5551234567", BirthDate: "not-a-date"},
	}

	_, err := svc.Import(context.Background(), 1, records)
	require.NoError(t, err)
	require.Len(t, persons.created, 2)
	require.NotNil(t, persons.created[0].BirthDate)
	assert.Equal(t, 2013, persons.created[0].BirthDate.Year())
	assert.Nil(t, persons.created[1].BirthDate, "unparseable dates fall back to absent")
}
