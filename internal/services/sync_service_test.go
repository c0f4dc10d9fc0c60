package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/models"
)

type fakeSnapshotStore struct {
	families []models.Family
	persons  []models.Person
	sessions []models.CheckinSession
	cutoff   time.Time
}

func (f *fakeSnapshotStore) ListFamilies(_ context.Context, orgID int) ([]models.Family, error) {
	return filterOrg(f.families, orgID, func(x models.Family) int { return x.OrgID }), nil
}

func (f *fakeSnapshotStore) ListPersons(_ context.Context, orgID int) ([]models.Person, error) {
	return filterOrg(f.persons, orgID, func(x models.Person) int { return x.OrgID }), nil
}

func (f *fakeSnapshotStore) ListTemplates(context.Context, int) ([]models.Template, error) {
	return nil, nil
}

func (f *fakeSnapshotStore) ListRooms(context.Context, int) ([]models.Room, error) {
	return nil, nil
}

func (f *fakeSnapshotStore) ListRewards(context.Context, int) ([]models.Reward, error) {
	return nil, nil
}

func (f *fakeSnapshotStore) ListSessionsSince(_ context.Context, orgID int, cutoff time.Time) ([]models.CheckinSession, error) {
	f.cutoff = cutoff
	var out []models.CheckinSession
	for _, s := range f.sessions {
		if s.OrgID == orgID && !s.OpenedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

func filterOrg[T any](rows []T, orgID int, orgOf func(T) int) []T {
	var out []T
	for _, r := range rows {
		if orgOf(r) == orgID {
			out = append(out, r)
		}
	}
	return out
}

func TestSnapshot_ScopedToOrg(t *testing.T) {
	store := &fakeSnapshotStore{
		families: []models.Family{{ID: 1, OrgID: 1}, {ID: 2, OrgID: 2}},
		persons:  []models.Person{{ID: 1, OrgID: 1}, {ID: 2, OrgID: 1}, {ID: 3, OrgID: 2}},
	}
	svc := NewSyncService(store, 90)

	snap, err := svc.Snapshot(context.Background(), 1)
	require.NoError(t, err)

	assert.NotEmpty(t, snap.BatchID)
	assert.Equal(t, 1, snap.OrgID)
	assert.Equal(t, 90, snap.RetentionDays)
	assert.Len(t, snap.Families, 1)
	assert.Len(t, snap.Persons, 2)
}

func TestSnapshot_PrunesSessionsPastRetention(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeSnapshotStore{
		sessions: []models.CheckinSession{
			{ID: 1, OrgID: 1, OpenedAt: now.AddDate(0, 0, -5)},
			{ID: 2, OrgID: 1, OpenedAt: now.AddDate(0, 0, -100)},
		},
	}
	svc := NewSyncService(store, 30)

	snap, err := svc.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, 1, snap.Sessions[0].ID)
	assert.WithinDuration(t, now.AddDate(0, 0, -30), store.cutoff, time.Minute)
}

func TestSnapshot_DistinctBatchIDs(t *testing.T) {
	svc := NewSyncService(&fakeSnapshotStore{}, 90)
	ctx := context.Background()

	a, err := svc.Snapshot(ctx, 1)
	require.NoError(t, err)
	b, err := svc.Snapshot(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.BatchID, b.BatchID)
}

func TestSnapshot_DefaultRetention(t *testing.T) {
	svc := NewSyncService(&fakeSnapshotStore{}, 0)
	assert.Equal(t, 90, svc.RetentionDays)
}

func TestSnapshot_MissingOrgScope(t *testing.T) {
	svc := NewSyncService(&fakeSnapshotStore{}, 90)
	_, err := svc.Snapshot(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}
