package repositories

import (
	"context"
	"errors"

	"checkin-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PersonRepository struct {
	DB *pgxpool.Pool
}

func NewPersonRepository(db *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{DB: db}
}

const personColumns = `
	id, org_id, family_id, first_name, last_name, display_name, birth_date,
	gender, pin, avatar_tag, notes, streak, badge_count, total_checkins,
	created_at, updated_at`

func scanPerson(row pgx.Row) (*models.Person, error) {
	var p models.Person
	err := row.Scan(&p.ID, &p.OrgID, &p.FamilyID, &p.FirstName, &p.LastName,
		&p.DisplayName, &p.BirthDate, &p.Gender, &p.PIN, &p.AvatarTag, &p.Notes,
		&p.Streak, &p.BadgeCount, &p.TotalCheckins, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert writes a person with the PIN already set on the model. A collision
// on (org_id, pin) comes back as ErrPINTaken so the PIN registry can retry
// with its next candidate; this compare-and-insert is what keeps assignment
// safe across concurrent service instances.
func (r *PersonRepository) Insert(ctx context.Context, p *models.Person) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO persons (org_id, family_id, first_name, last_name, display_name,
			birth_date, gender, pin, avatar_tag, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, streak, badge_count, total_checkins, created_at, updated_at
	`, p.OrgID, p.FamilyID, p.FirstName, p.LastName, p.DisplayName,
		p.BirthDate, p.Gender, p.PIN, p.AvatarTag, p.Notes,
	).Scan(&p.ID, &p.Streak, &p.BadgeCount, &p.TotalCheckins, &p.CreatedAt, &p.UpdatedAt)
	if uniqueViolation(err, "persons_org_id_pin_key") {
		return ErrPINTaken
	}
	return err
}

// UpdatePIN replaces a person's PIN, used only by explicit regeneration.
// Returns ErrPINTaken on collision so the registry retries.
func (r *PersonRepository) UpdatePIN(ctx context.Context, orgID, id int, newPIN string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE persons SET pin = $1, updated_at = NOW()
		WHERE id = $2 AND org_id = $3
	`, newPIN, id, orgID)
	if uniqueViolation(err, "persons_org_id_pin_key") {
		return ErrPINTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Get retrieves a person by id within the organization
func (r *PersonRepository) Get(ctx context.Context, orgID, id int) (*models.Person, error) {
	p, err := scanPerson(r.DB.QueryRow(ctx,
		`SELECT `+personColumns+` FROM persons WHERE id = $1 AND org_id = $2`, id, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// GetByPIN is the kiosk lookup path
func (r *PersonRepository) GetByPIN(ctx context.Context, orgID int, pin string) (*models.Person, error) {
	p, err := scanPerson(r.DB.QueryRow(ctx,
		`SELECT `+personColumns+` FROM persons WHERE org_id = $1 AND pin = $2`, orgID, pin))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// ListByOrg retrieves all persons in the organization
func (r *PersonRepository) ListByOrg(ctx context.Context, orgID int) ([]models.Person, error) {
	return r.list(ctx, `SELECT `+personColumns+` FROM persons WHERE org_id = $1 ORDER BY last_name, first_name`, orgID)
}

// ListByFamily retrieves all persons belonging to one family
func (r *PersonRepository) ListByFamily(ctx context.Context, orgID, familyID int) ([]models.Person, error) {
	return r.list(ctx, `SELECT `+personColumns+` FROM persons WHERE org_id = $1 AND family_id = $2 ORDER BY first_name`, orgID, familyID)
}

func (r *PersonRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Person, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, *p)
	}
	return persons, rows.Err()
}

// Update updates a person's editable fields. The PIN and the counters are
// never touched here; counters belong to the check-in transaction.
func (r *PersonRepository) Update(ctx context.Context, p *models.Person) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE persons
		SET first_name = $1, last_name = $2, display_name = $3, birth_date = $4,
			gender = $5, avatar_tag = $6, notes = $7, updated_at = NOW()
		WHERE id = $8 AND org_id = $9
	`, p.FirstName, p.LastName, p.DisplayName, p.BirthDate, p.Gender,
		p.AvatarTag, p.Notes, p.ID, p.OrgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a person
func (r *PersonRepository) Delete(ctx context.Context, orgID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM persons WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountByOrg returns the number of persons (and therefore assigned PINs) in
// the organization, used for the PIN-space exhaustion check
func (r *PersonRepository) CountByOrg(ctx context.Context, orgID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM persons WHERE org_id = $1`, orgID).Scan(&count)
	return count, err
}
