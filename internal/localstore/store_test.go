package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func birth(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func testSnapshot() *models.SyncSnapshot {
	return &models.SyncSnapshot{
		BatchID:       "batch-1",
		OrgID:         1,
		GeneratedAt:   time.Now().UTC(),
		RetentionDays: 90,
		Families: []models.Family{
			{ID: 10, OrgID: 1, DisplayName: "Lovell Family", Phone: "5551234567"},
		},
		Persons: []models.Person{
			{ID: 20, OrgID: 1, FamilyID: 10, FirstName: "Ada", LastName: "Lovell",
				DisplayName: "Ada L", BirthDate: birth(2013, time.November, 17),
				PIN: "111713", Streak: 3, TotalCheckins: 12},
		},
		Templates: []models.Template{
			{ID: 30, OrgID: 1, Name: "Sunday 9am", RoomIDs: []int{40}, StreakResetDays: 8, Active: true},
		},
		Rooms: []models.Room{
			{ID: 40, OrgID: 1, Name: "Sprouts", Capacity: 15},
		},
		Rewards: []models.Reward{
			{ID: 50, OrgID: 1, TriggerType: models.RewardTriggerStreak, TriggerValue: 4, Prize: "Sticker", Enabled: true},
		},
		Sessions: []models.CheckinSession{
			{ID: 60, OrgID: 1, PersonID: 20, FamilyID: 10, TemplateID: 30, RoomID: 40,
				PickupCode: "ABCD", OpenedAt: time.Now().UTC()},
		},
	}
}

func TestApplySnapshot_InsertsAllRowSets(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result, err := store.ApplySnapshot(ctx, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "batch-1", result.BatchID)
	assert.Equal(t, 6, result.RowsApplied)

	count, err := store.CountPersons(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApplySnapshot_UpsertsByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.ApplySnapshot(ctx, testSnapshot())
	require.NoError(t, err)

	snap := testSnapshot()
	snap.BatchID = "batch-2"
	snap.Persons[0].Streak = 4
	snap.Persons[0].Notes = "peanut allergy"
	_, err = store.ApplySnapshot(ctx, snap)
	require.NoError(t, err)

	person, err := store.LookupPIN(ctx, 1, "111713")
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, 4, person.Streak)
	assert.Equal(t, "peanut allergy", person.Notes)

	count, err := store.CountPersons(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-applying must not duplicate rows")
}

func TestApplySnapshot_NeverDeletesLocally(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.ApplySnapshot(ctx, testSnapshot())
	require.NoError(t, err)

	empty := &models.SyncSnapshot{BatchID: "batch-2", OrgID: 1, GeneratedAt: time.Now().UTC()}
	_, err = store.ApplySnapshot(ctx, empty)
	require.NoError(t, err)

	count, err := store.CountPersons(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApplySnapshot_OrgMismatchAbortsBatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snap := testSnapshot()
	snap.Persons[0].OrgID = 2
	_, err := store.ApplySnapshot(ctx, snap)
	require.Error(t, err)

	// The whole batch rolled back, families included
	count, err := store.CountPersons(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestApplySnapshot_OrgMismatchGuardsEveryRowSet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	taint := []func(*models.SyncSnapshot){
		func(s *models.SyncSnapshot) { s.Families[0].OrgID = 2 },
		func(s *models.SyncSnapshot) { s.Persons[0].OrgID = 2 },
		func(s *models.SyncSnapshot) { s.Templates[0].OrgID = 2 },
		func(s *models.SyncSnapshot) { s.Rooms[0].OrgID = 2 },
		func(s *models.SyncSnapshot) { s.Rewards[0].OrgID = 2 },
		func(s *models.SyncSnapshot) { s.Sessions[0].OrgID = 2 },
	}
	for _, corrupt := range taint {
		snap := testSnapshot()
		corrupt(snap)
		_, err := store.ApplySnapshot(ctx, snap)
		require.Error(t, err)
	}

	count, err := store.CountPersons(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "no tainted batch may leave rows behind")
}

func TestApplySnapshot_MissingOrg(t *testing.T) {
	store := openTestStore(t)
	_, err := store.ApplySnapshot(context.Background(), &models.SyncSnapshot{BatchID: "b"})
	require.Error(t, err)
}

func TestLookupPIN(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.ApplySnapshot(ctx, testSnapshot())
	require.NoError(t, err)

	person, err := store.LookupPIN(ctx, 1, "111713")
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, "Ada L", person.DisplayName)
	require.NotNil(t, person.BirthDate)
	assert.Equal(t, 2013, person.BirthDate.Year())

	missing, err := store.LookupPIN(ctx, 1, "000000")
	require.NoError(t, err)
	assert.Nil(t, missing)

	wrongOrg, err := store.LookupPIN(ctx, 2, "111713")
	require.NoError(t, err)
	assert.Nil(t, wrongOrg)
}

func TestLastSync(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	at, batchID, err := store.LastSync(ctx, 1)
	require.NoError(t, err)
	assert.True(t, at.IsZero())
	assert.Empty(t, batchID)

	_, err = store.ApplySnapshot(ctx, testSnapshot())
	require.NoError(t, err)

	at, batchID, err = store.LastSync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "batch-1", batchID)
	assert.WithinDuration(t, time.Now().UTC(), at, time.Minute)
}
