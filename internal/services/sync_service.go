package services

import (
	"context"
	"time"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/metrics"
	"checkin-backend/internal/models"

	"github.com/google/uuid"
)

// SnapshotStore is the read-only slice of the roster store the sync pull
// phase needs. Everything is scoped by organization id; a snapshot never
// contains another tenant's rows.
type SnapshotStore interface {
	ListFamilies(ctx context.Context, orgID int) ([]models.Family, error)
	ListPersons(ctx context.Context, orgID int) ([]models.Person, error)
	ListTemplates(ctx context.Context, orgID int) ([]models.Template, error)
	ListRooms(ctx context.Context, orgID int) ([]models.Room, error)
	ListRewards(ctx context.Context, orgID int) ([]models.Reward, error)
	ListSessionsSince(ctx context.Context, orgID int, cutoff time.Time) ([]models.CheckinSession, error)
}

// SyncService builds the pull-phase payload kiosks apply to their local
// dataset. Sessions older than the retention window are pruned from the
// payload, never from the central store.
type SyncService struct {
	Store         SnapshotStore
	RetentionDays int
}

func NewSyncService(store SnapshotStore, retentionDays int) *SyncService {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &SyncService{Store: store, RetentionDays: retentionDays}
}

// Snapshot assembles the full org-scoped row set for a pull
func (s *SyncService) Snapshot(ctx context.Context, orgID int) (*models.SyncSnapshot, error) {
	if orgID <= 0 {
		return nil, apperrors.Unauthorized("missing organization scope")
	}

	now := time.Now().UTC()
	snap := &models.SyncSnapshot{
		BatchID:       uuid.NewString(),
		OrgID:         orgID,
		GeneratedAt:   now,
		RetentionDays: s.RetentionDays,
	}

	var err error
	if snap.Families, err = s.Store.ListFamilies(ctx, orgID); err != nil {
		return nil, err
	}
	if snap.Persons, err = s.Store.ListPersons(ctx, orgID); err != nil {
		return nil, err
	}
	if snap.Templates, err = s.Store.ListTemplates(ctx, orgID); err != nil {
		return nil, err
	}
	if snap.Rooms, err = s.Store.ListRooms(ctx, orgID); err != nil {
		return nil, err
	}
	if snap.Rewards, err = s.Store.ListRewards(ctx, orgID); err != nil {
		return nil, err
	}
	cutoff := now.AddDate(0, 0, -s.RetentionDays)
	if snap.Sessions, err = s.Store.ListSessionsSince(ctx, orgID, cutoff); err != nil {
		return nil, err
	}

	metrics.SyncSnapshots.Inc()
	return snap, nil
}
