package repositories

import (
	"context"
	"errors"

	"checkin-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrganizationRepository struct {
	DB *pgxpool.Pool
}

func NewOrganizationRepository(db *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

// Preset rewards every new organization starts with
var presetRewards = []models.Reward{
	{TriggerType: models.RewardTriggerStreak, TriggerValue: 4, Prize: "Sticker pack", Icon: "star"},
	{TriggerType: models.RewardTriggerStreak, TriggerValue: 12, Prize: "Small prize box", Icon: "trophy"},
	{TriggerType: models.RewardTriggerTotalCheckins, TriggerValue: 10, Prize: "Bookmark", Icon: "book"},
	{TriggerType: models.RewardTriggerTotalCheckins, TriggerValue: 50, Prize: "T-shirt", Icon: "shirt"},
}

// Create inserts a new organization and seeds its preset rewards in one
// transaction
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO organizations (name, slug, subscription_state, api_secret_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, org.Name, org.Slug, org.SubscriptionState, org.APISecretHash,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return err
	}

	for _, preset := range presetRewards {
		_, err = tx.Exec(ctx, `
			INSERT INTO rewards (org_id, trigger_type, trigger_value, prize, icon, enabled, preset)
			VALUES ($1, $2, $3, $4, $5, TRUE, TRUE)
		`, org.ID, preset.TriggerType, preset.TriggerValue, preset.Prize, preset.Icon)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves an organization by id
func (r *OrganizationRepository) Get(ctx context.Context, id int) (*models.Organization, error) {
	var org models.Organization
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, slug, subscription_state, api_secret_hash, created_at, updated_at
		FROM organizations WHERE id = $1
	`, id).Scan(&org.ID, &org.Name, &org.Slug, &org.SubscriptionState,
		&org.APISecretHash, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetBySlug retrieves an organization by its unique slug
func (r *OrganizationRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, slug, subscription_state, api_secret_hash, created_at, updated_at
		FROM organizations WHERE slug = $1
	`, slug).Scan(&org.ID, &org.Name, &org.Slug, &org.SubscriptionState,
		&org.APISecretHash, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}
