package repositories

import (
	"context"
	"errors"

	"checkin-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RewardRepository struct {
	DB *pgxpool.Pool
}

func NewRewardRepository(db *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{DB: db}
}

// Create inserts a new reward
func (r *RewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO rewards (org_id, trigger_type, trigger_value, prize, icon, enabled, preset)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id, created_at, updated_at
	`, reward.OrgID, reward.TriggerType, reward.TriggerValue,
		reward.Prize, reward.Icon, reward.Enabled,
	).Scan(&reward.ID, &reward.CreatedAt, &reward.UpdatedAt)
}

// Get retrieves a reward by id within the organization
func (r *RewardRepository) Get(ctx context.Context, orgID, id int) (*models.Reward, error) {
	var reward models.Reward
	err := r.DB.QueryRow(ctx, `
		SELECT id, org_id, trigger_type, trigger_value, prize, icon, enabled, preset,
			created_at, updated_at
		FROM rewards WHERE id = $1 AND org_id = $2
	`, id, orgID).Scan(&reward.ID, &reward.OrgID, &reward.TriggerType,
		&reward.TriggerValue, &reward.Prize, &reward.Icon, &reward.Enabled,
		&reward.Preset, &reward.CreatedAt, &reward.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// ListByOrg retrieves all rewards in the organization
func (r *RewardRepository) ListByOrg(ctx context.Context, orgID int) ([]models.Reward, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, org_id, trigger_type, trigger_value, prize, icon, enabled, preset,
			created_at, updated_at
		FROM rewards WHERE org_id = $1 ORDER BY trigger_type, trigger_value
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []models.Reward
	for rows.Next() {
		var reward models.Reward
		if err := rows.Scan(&reward.ID, &reward.OrgID, &reward.TriggerType,
			&reward.TriggerValue, &reward.Prize, &reward.Icon, &reward.Enabled,
			&reward.Preset, &reward.CreatedAt, &reward.UpdatedAt); err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}

// Update updates a reward's editable fields
func (r *RewardRepository) Update(ctx context.Context, reward *models.Reward) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE rewards
		SET trigger_type = $1, trigger_value = $2, prize = $3, icon = $4,
			enabled = $5, updated_at = NOW()
		WHERE id = $6 AND org_id = $7
	`, reward.TriggerType, reward.TriggerValue, reward.Prize, reward.Icon,
		reward.Enabled, reward.ID, reward.OrgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a reward. Preset rewards are protected; disable them
// instead.
func (r *RewardRepository) Delete(ctx context.Context, orgID, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM rewards WHERE id = $1 AND org_id = $2 AND NOT preset`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListGrantsByPerson retrieves the milestones a person already earned
func (r *RewardRepository) ListGrantsByPerson(ctx context.Context, orgID, personID int) ([]models.RewardGrant, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, org_id, reward_id, person_id, milestone, session_id, granted_at
		FROM reward_grants WHERE org_id = $1 AND person_id = $2
		ORDER BY granted_at DESC
	`, orgID, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []models.RewardGrant
	for rows.Next() {
		var g models.RewardGrant
		if err := rows.Scan(&g.ID, &g.OrgID, &g.RewardID, &g.PersonID,
			&g.Milestone, &g.SessionID, &g.GrantedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
