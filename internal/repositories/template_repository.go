package repositories

import (
	"context"
	"errors"

	"checkin-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TemplateRepository struct {
	DB *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

// Create inserts a template and its room associations in one transaction
func (r *TemplateRepository) Create(ctx context.Context, t *models.Template) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO templates (org_id, name, day_of_week, start_time, end_time,
			checkout_enabled, streak_reset_days, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, active, created_at, updated_at
	`, t.OrgID, t.Name, t.DayOfWeek, t.StartTime, t.EndTime,
		t.CheckoutEnabled, t.StreakResetDays,
	).Scan(&t.ID, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}

	for _, roomID := range t.RoomIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO template_rooms (template_id, room_id) VALUES ($1, $2)
		`, t.ID, roomID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves a template with its room ids
func (r *TemplateRepository) Get(ctx context.Context, orgID, id int) (*models.Template, error) {
	var t models.Template
	err := r.DB.QueryRow(ctx, `
		SELECT id, org_id, name, day_of_week, start_time, end_time,
			checkout_enabled, streak_reset_days, active, created_at, updated_at
		FROM templates WHERE id = $1 AND org_id = $2
	`, id, orgID).Scan(&t.ID, &t.OrgID, &t.Name, &t.DayOfWeek, &t.StartTime,
		&t.EndTime, &t.CheckoutEnabled, &t.StreakResetDays, &t.Active,
		&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t.RoomIDs, err = r.roomIDs(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByOrg retrieves all templates in the organization with their room ids
func (r *TemplateRepository) ListByOrg(ctx context.Context, orgID int) ([]models.Template, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, org_id, name, day_of_week, start_time, end_time,
			checkout_enabled, streak_reset_days, active, created_at, updated_at
		FROM templates WHERE org_id = $1 ORDER BY day_of_week, start_time
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Name, &t.DayOfWeek, &t.StartTime,
			&t.EndTime, &t.CheckoutEnabled, &t.StreakResetDays, &t.Active,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		templates[i].RoomIDs, err = r.roomIDs(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (r *TemplateRepository) roomIDs(ctx context.Context, templateID int) ([]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT room_id FROM template_rooms WHERE template_id = $1 ORDER BY room_id`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update replaces a template's fields and room associations
func (r *TemplateRepository) Update(ctx context.Context, t *models.Template) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE templates
		SET name = $1, day_of_week = $2, start_time = $3, end_time = $4,
			checkout_enabled = $5, streak_reset_days = $6, active = $7, updated_at = NOW()
		WHERE id = $8 AND org_id = $9
	`, t.Name, t.DayOfWeek, t.StartTime, t.EndTime, t.CheckoutEnabled,
		t.StreakResetDays, t.Active, t.ID, t.OrgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM template_rooms WHERE template_id = $1`, t.ID); err != nil {
		return err
	}
	for _, roomID := range t.RoomIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO template_rooms (template_id, room_id) VALUES ($1, $2)`, t.ID, roomID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes a template and its room associations
func (r *TemplateRepository) Delete(ctx context.Context, orgID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM templates WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
