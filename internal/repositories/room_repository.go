package repositories

import (
	"context"
	"errors"

	"checkin-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	DB *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{DB: db}
}

// Create inserts a new room
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO rooms (org_id, name, capacity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, room.OrgID, room.Name, room.Capacity,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

// Get retrieves a room by id within the organization
func (r *RoomRepository) Get(ctx context.Context, orgID, id int) (*models.Room, error) {
	var room models.Room
	err := r.DB.QueryRow(ctx, `
		SELECT id, org_id, name, capacity, created_at, updated_at
		FROM rooms WHERE id = $1 AND org_id = $2
	`, id, orgID).Scan(&room.ID, &room.OrgID, &room.Name, &room.Capacity,
		&room.CreatedAt, &room.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListByOrg retrieves all rooms in the organization
func (r *RoomRepository) ListByOrg(ctx context.Context, orgID int) ([]models.Room, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, org_id, name, capacity, created_at, updated_at
		FROM rooms WHERE org_id = $1 ORDER BY name
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.OrgID, &room.Name, &room.Capacity,
			&room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// Update updates a room's name and capacity
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE rooms SET name = $1, capacity = $2, updated_at = NOW()
		WHERE id = $3 AND org_id = $4
	`, room.Name, room.Capacity, room.ID, room.OrgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a room
func (r *RoomRepository) Delete(ctx context.Context, orgID, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM rooms WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
