// Package localstore is the kiosk's offline dataset: a SQLite mirror of one
// organization's roster, filled by the sync reconciler's pull phase and read
// by the kiosk when the central service is unreachable.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"checkin-backend/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// Open creates or opens the local dataset and ensures its schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping local store: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS families (
		id INTEGER PRIMARY KEY,
		org_id INTEGER NOT NULL,
		display_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		is_volunteer INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS persons (
		id INTEGER PRIMARY KEY,
		org_id INTEGER NOT NULL,
		family_id INTEGER NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		birth_date TEXT,
		gender TEXT NOT NULL DEFAULT '',
		pin TEXT NOT NULL,
		avatar_tag TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		streak INTEGER NOT NULL DEFAULT 0,
		badge_count INTEGER NOT NULL DEFAULT 0,
		total_checkins INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_persons_pin ON persons(org_id, pin);
	CREATE TABLE IF NOT EXISTS templates (
		id INTEGER PRIMARY KEY,
		org_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		day_of_week INTEGER NOT NULL DEFAULT 0,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		room_ids TEXT NOT NULL DEFAULT '[]',
		checkout_enabled INTEGER NOT NULL DEFAULT 1,
		streak_reset_days INTEGER NOT NULL DEFAULT 8,
		active INTEGER NOT NULL DEFAULT 1
	);
	CREATE TABLE IF NOT EXISTS rooms (
		id INTEGER PRIMARY KEY,
		org_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS rewards (
		id INTEGER PRIMARY KEY,
		org_id INTEGER NOT NULL,
		trigger_type TEXT NOT NULL,
		trigger_value INTEGER NOT NULL,
		prize TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		enabled INTEGER NOT NULL DEFAULT 1,
		preset INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY,
		org_id INTEGER NOT NULL,
		person_id INTEGER NOT NULL,
		family_id INTEGER NOT NULL,
		template_id INTEGER NOT NULL,
		room_id INTEGER NOT NULL,
		pickup_code TEXT NOT NULL,
		opened_at TEXT NOT NULL,
		closed_at TEXT
	);
	CREATE TABLE IF NOT EXISTS sync_state (
		org_id INTEGER PRIMARY KEY,
		last_batch_id TEXT NOT NULL,
		last_synced_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// ApplySnapshot upserts every row of a pull-phase snapshot by primary id in
// one transaction. Rows absent from the snapshot are left untouched; the
// pull direction never deletes locally. All-or-nothing: any failure rolls
// the whole batch back.
func (s *Store) ApplySnapshot(ctx context.Context, snap *models.SyncSnapshot) (*models.SyncResult, error) {
	if snap == nil || snap.OrgID <= 0 {
		return nil, errors.New("snapshot missing organization id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	applied := 0

	for _, f := range snap.Families {
		if f.OrgID != snap.OrgID {
			return nil, fmt.Errorf("family %d belongs to org %d, snapshot is org %d", f.ID, f.OrgID, snap.OrgID)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO families (id, org_id, display_name, phone, email, is_volunteer)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				org_id = excluded.org_id, display_name = excluded.display_name,
				phone = excluded.phone, email = excluded.email,
				is_volunteer = excluded.is_volunteer
		`, f.ID, f.OrgID, f.DisplayName, f.Phone, f.Email, f.IsVolunteer)
		if err != nil {
			return nil, fmt.Errorf("family upsert failed: %w", err)
		}
		applied++
	}

	for _, p := range snap.Persons {
		if p.OrgID != snap.OrgID {
			return nil, fmt.Errorf("person %d belongs to org %d, snapshot is org %d", p.ID, p.OrgID, snap.OrgID)
		}
		var birth interface{}
		if p.BirthDate != nil {
			birth = p.BirthDate.Format("2006-01-02")
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO persons (id, org_id, family_id, first_name, last_name, display_name,
				birth_date, gender, pin, avatar_tag, notes, streak, badge_count, total_checkins)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				org_id = excluded.org_id, family_id = excluded.family_id,
				first_name = excluded.first_name, last_name = excluded.last_name,
				display_name = excluded.display_name, birth_date = excluded.birth_date,
				gender = excluded.gender, pin = excluded.pin,
				avatar_tag = excluded.avatar_tag, notes = excluded.notes,
				streak = excluded.streak, badge_count = excluded.badge_count,
				total_checkins = excluded.total_checkins
		`, p.ID, p.OrgID, p.FamilyID, p.FirstName, p.LastName, p.DisplayName,
			birth, p.Gender, p.PIN, p.AvatarTag, p.Notes, p.Streak,
			p.BadgeCount, p.TotalCheckins)
		if err != nil {
			return nil, fmt.Errorf("person upsert failed: %w", err)
		}
		applied++
	}

	for _, t := range snap.Templates {
		if t.OrgID != snap.OrgID {
			return nil, fmt.Errorf("template %d belongs to org %d, snapshot is org %d", t.ID, t.OrgID, snap.OrgID)
		}
		roomIDs, err := json.Marshal(t.RoomIDs)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO templates (id, org_id, name, day_of_week, start_time, end_time,
				room_ids, checkout_enabled, streak_reset_days, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				org_id = excluded.org_id, name = excluded.name,
				day_of_week = excluded.day_of_week, start_time = excluded.start_time,
				end_time = excluded.end_time, room_ids = excluded.room_ids,
				checkout_enabled = excluded.checkout_enabled,
				streak_reset_days = excluded.streak_reset_days, active = excluded.active
		`, t.ID, t.OrgID, t.Name, t.DayOfWeek, t.StartTime, t.EndTime,
			string(roomIDs), t.CheckoutEnabled, t.StreakResetDays, t.Active)
		if err != nil {
			return nil, fmt.Errorf("template upsert failed: %w", err)
		}
		applied++
	}

	for _, room := range snap.Rooms {
		if room.OrgID != snap.OrgID {
			return nil, fmt.Errorf("room %d belongs to org %d, snapshot is org %d", room.ID, room.OrgID, snap.OrgID)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rooms (id, org_id, name, capacity)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				org_id = excluded.org_id, name = excluded.name, capacity = excluded.capacity
		`, room.ID, room.OrgID, room.Name, room.Capacity)
		if err != nil {
			return nil, fmt.Errorf("room upsert failed: %w", err)
		}
		applied++
	}

	for _, r := range snap.Rewards {
		if r.OrgID != snap.OrgID {
			return nil, fmt.Errorf("reward %d belongs to org %d, snapshot is org %d", r.ID, r.OrgID, snap.OrgID)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rewards (id, org_id, trigger_type, trigger_value, prize, icon, enabled, preset)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				org_id = excluded.org_id, trigger_type = excluded.trigger_type,
				trigger_value = excluded.trigger_value, prize = excluded.prize,
				icon = excluded.icon, enabled = excluded.enabled, preset = excluded.preset
		`, r.ID, r.OrgID, r.TriggerType, r.TriggerValue, r.Prize, r.Icon, r.Enabled, r.Preset)
		if err != nil {
			return nil, fmt.Errorf("reward upsert failed: %w", err)
		}
		applied++
	}

	for _, sess := range snap.Sessions {
		if sess.OrgID != snap.OrgID {
			return nil, fmt.Errorf("session %d belongs to org %d, snapshot is org %d", sess.ID, sess.OrgID, snap.OrgID)
		}
		var closed interface{}
		if sess.ClosedAt != nil {
			closed = sess.ClosedAt.UTC().Format(time.RFC3339)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, org_id, person_id, family_id, template_id, room_id,
				pickup_code, opened_at, closed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				org_id = excluded.org_id, person_id = excluded.person_id,
				family_id = excluded.family_id, template_id = excluded.template_id,
				room_id = excluded.room_id, pickup_code = excluded.pickup_code,
				opened_at = excluded.opened_at, closed_at = excluded.closed_at
		`, sess.ID, sess.OrgID, sess.PersonID, sess.FamilyID, sess.TemplateID,
			sess.RoomID, sess.PickupCode, sess.OpenedAt.UTC().Format(time.RFC3339), closed)
		if err != nil {
			return nil, fmt.Errorf("session upsert failed: %w", err)
		}
		applied++
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_state (org_id, last_batch_id, last_synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT(org_id) DO UPDATE SET
			last_batch_id = excluded.last_batch_id,
			last_synced_at = excluded.last_synced_at
	`, snap.OrgID, snap.BatchID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &models.SyncResult{BatchID: snap.BatchID, RowsApplied: applied}, nil
}

// LookupPIN resolves a PIN against the local dataset for offline kiosk use
func (s *Store) LookupPIN(ctx context.Context, orgID int, pin string) (*models.Person, error) {
	var p models.Person
	var birth sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, family_id, first_name, last_name, display_name,
			birth_date, gender, pin, avatar_tag, notes, streak, badge_count, total_checkins
		FROM persons WHERE org_id = ? AND pin = ?
	`, orgID, pin).Scan(&p.ID, &p.OrgID, &p.FamilyID, &p.FirstName, &p.LastName,
		&p.DisplayName, &birth, &p.Gender, &p.PIN, &p.AvatarTag, &p.Notes,
		&p.Streak, &p.BadgeCount, &p.TotalCheckins)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if birth.Valid {
		if t, err := time.Parse("2006-01-02", birth.String); err == nil {
			p.BirthDate = &t
		}
	}
	return &p, nil
}

// LastSync reports when the org's dataset was last refreshed; zero time when
// never synced. Kiosks use it to warn about stale offline data.
func (s *Store) LastSync(ctx context.Context, orgID int) (time.Time, string, error) {
	var batchID, at string
	err := s.db.QueryRowContext(ctx, `
		SELECT last_batch_id, last_synced_at FROM sync_state WHERE org_id = ?
	`, orgID).Scan(&batchID, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, "", nil
	}
	if err != nil {
		return time.Time{}, "", err
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, batchID, nil
	}
	return t, batchID, nil
}

// CountPersons returns how many persons the local dataset holds for the org
func (s *Store) CountPersons(ctx context.Context, orgID int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM persons WHERE org_id = ?`, orgID).Scan(&n)
	return n, err
}
