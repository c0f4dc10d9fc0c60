package repositories

import (
	"context"
	"errors"

	"checkin-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FamilyRepository struct {
	DB *pgxpool.Pool
}

func NewFamilyRepository(db *pgxpool.Pool) *FamilyRepository {
	return &FamilyRepository{DB: db}
}

// Create inserts a new family. Returns ErrPhoneTaken when the normalized
// phone is already registered in the organization.
func (r *FamilyRepository) Create(ctx context.Context, family *models.Family) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO families (org_id, display_name, phone, email, is_volunteer)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, family.OrgID, family.DisplayName, family.Phone, family.Email, family.IsVolunteer,
	).Scan(&family.ID, &family.CreatedAt, &family.UpdatedAt)
	if uniqueViolation(err, "families_org_id_phone_key") {
		return ErrPhoneTaken
	}
	return err
}

// Get retrieves a family by id within the organization
func (r *FamilyRepository) Get(ctx context.Context, orgID, id int) (*models.Family, error) {
	var f models.Family
	err := r.DB.QueryRow(ctx, `
		SELECT id, org_id, display_name, phone, email, is_volunteer, created_at, updated_at
		FROM families WHERE id = $1 AND org_id = $2
	`, id, orgID).Scan(&f.ID, &f.OrgID, &f.DisplayName, &f.Phone, &f.Email,
		&f.IsVolunteer, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByPhone retrieves a family by its normalized phone number. This is the
// dedup key for bulk imports.
func (r *FamilyRepository) GetByPhone(ctx context.Context, orgID int, phone string) (*models.Family, error) {
	var f models.Family
	err := r.DB.QueryRow(ctx, `
		SELECT id, org_id, display_name, phone, email, is_volunteer, created_at, updated_at
		FROM families WHERE org_id = $1 AND phone = $2
	`, orgID, phone).Scan(&f.ID, &f.OrgID, &f.DisplayName, &f.Phone, &f.Email,
		&f.IsVolunteer, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByOrg retrieves all families in the organization
func (r *FamilyRepository) ListByOrg(ctx context.Context, orgID int) ([]models.Family, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, org_id, display_name, phone, email, is_volunteer, created_at, updated_at
		FROM families WHERE org_id = $1
		ORDER BY display_name
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var f models.Family
		if err := rows.Scan(&f.ID, &f.OrgID, &f.DisplayName, &f.Phone, &f.Email,
			&f.IsVolunteer, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return families, rows.Err()
}

// Update updates a family's editable fields
func (r *FamilyRepository) Update(ctx context.Context, family *models.Family) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE families
		SET display_name = $1, phone = $2, email = $3, is_volunteer = $4, updated_at = NOW()
		WHERE id = $5 AND org_id = $6
	`, family.DisplayName, family.Phone, family.Email, family.IsVolunteer,
		family.ID, family.OrgID)
	if uniqueViolation(err, "families_org_id_phone_key") {
		return ErrPhoneTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a family. Fails on foreign keys while persons still
// reference it; callers delete persons first.
func (r *FamilyRepository) Delete(ctx context.Context, orgID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM families WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
