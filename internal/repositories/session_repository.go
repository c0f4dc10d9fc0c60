package repositories

import (
	"context"
	"errors"
	"time"

	"checkin-backend/internal/models"
	"checkin-backend/internal/streak"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors for the check-in state machine
var (
	ErrPersonNotFound   = errors.New("person not found in organization")
	ErrTemplateNotFound = errors.New("template not found in organization")
	ErrRoomNotFound     = errors.New("room not found in organization")
	ErrTemplateInactive = errors.New("template is not active")
	ErrRoomFull         = errors.New("room is at capacity")
	ErrNoOpenSession    = errors.New("no open session for person")
	ErrCodeMismatch     = errors.New("pickup code does not match")
	ErrCheckoutDisabled = errors.New("checkout is disabled for this template")
)

type SessionRepository struct {
	DB *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{DB: db}
}

// OpenParams carries one check-in attempt
type OpenParams struct {
	OrgID      int
	PersonID   int
	TemplateID int
	RoomID     int
	PickupCode string
	Now        time.Time
}

// OpenResult is everything a successful check-in produced: the session, the
// person's updated counters, and the rewards that fired.
type OpenResult struct {
	Session      models.CheckinSession
	Person       models.Person
	RoomName     string
	TemplateName string
	Fired        []models.Reward
}

// Open runs the Absent -> CheckedIn transition as one transaction: the
// no-open-session check, the capacity check, the session insert, the
// streak/total update, and reward evaluation all commit together or not at
// all. The SELECT FOR UPDATE on the person row serializes concurrent
// attempts for the same person; the partial unique index on open sessions is
// the backstop for attempts racing from another service instance.
func (r *SessionRepository) Open(ctx context.Context, p OpenParams) (*OpenResult, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var person models.Person
	err = tx.QueryRow(ctx, `
		SELECT id, org_id, family_id, first_name, last_name, display_name,
			pin, avatar_tag, notes, streak, badge_count, total_checkins
		FROM persons WHERE id = $1 AND org_id = $2
		FOR UPDATE
	`, p.PersonID, p.OrgID).Scan(&person.ID, &person.OrgID, &person.FamilyID,
		&person.FirstName, &person.LastName, &person.DisplayName, &person.PIN,
		&person.AvatarTag, &person.Notes, &person.Streak, &person.BadgeCount,
		&person.TotalCheckins)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}

	var openCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM checkin_sessions
		WHERE person_id = $1 AND closed_at IS NULL
	`, p.PersonID).Scan(&openCount)
	if err != nil {
		return nil, err
	}
	if openCount > 0 {
		return nil, ErrAlreadyOpen
	}

	var tmplName string
	var tmplActive, checkoutEnabled bool
	var resetDays int
	err = tx.QueryRow(ctx, `
		SELECT name, active, checkout_enabled, streak_reset_days
		FROM templates WHERE id = $1 AND org_id = $2
	`, p.TemplateID, p.OrgID).Scan(&tmplName, &tmplActive, &checkoutEnabled, &resetDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	if !tmplActive {
		return nil, ErrTemplateInactive
	}

	// Lock the room row so concurrent opens serialize the capacity check
	var roomName string
	var capacity int
	err = tx.QueryRow(ctx, `
		SELECT name, capacity FROM rooms WHERE id = $1 AND org_id = $2
		FOR UPDATE
	`, p.RoomID, p.OrgID).Scan(&roomName, &capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	if capacity > 0 {
		var inRoom int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM checkin_sessions
			WHERE room_id = $1 AND closed_at IS NULL
		`, p.RoomID).Scan(&inRoom)
		if err != nil {
			return nil, err
		}
		if inRoom >= capacity {
			return nil, ErrRoomFull
		}
	}

	var lastCheckin *time.Time
	err = tx.QueryRow(ctx, `
		SELECT MAX(opened_at) FROM checkin_sessions WHERE person_id = $1
	`, p.PersonID).Scan(&lastCheckin)
	if err != nil {
		return nil, err
	}

	session := models.CheckinSession{
		OrgID:      p.OrgID,
		PersonID:   p.PersonID,
		FamilyID:   person.FamilyID,
		TemplateID: p.TemplateID,
		RoomID:     p.RoomID,
		PickupCode: p.PickupCode,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO checkin_sessions (org_id, person_id, family_id, template_id, room_id, pickup_code, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, opened_at
	`, p.OrgID, p.PersonID, person.FamilyID, p.TemplateID, p.RoomID,
		p.PickupCode, p.Now).Scan(&session.ID, &session.OpenedAt)
	if uniqueViolation(err, "idx_one_open_session_per_person") {
		return nil, ErrAlreadyOpen
	}
	if uniqueViolation(err, "idx_open_pickup_code") {
		return nil, ErrPickupCodeTaken
	}
	if err != nil {
		return nil, err
	}

	prevStreak := person.Streak
	person.Streak = streak.Advance(lastCheckin, p.Now, resetDays, person.Streak)
	person.TotalCheckins++

	rewards, err := r.enabledRewards(ctx, tx, p.OrgID)
	if err != nil {
		return nil, err
	}

	// A milestone fires on the transition into its trigger value, so a streak
	// that resets and climbs back earns the reward again. The grant unique
	// key on (reward, person, session) keeps the record idempotent within
	// this session's transaction.
	var fired []models.Reward
	for _, candidate := range streak.Evaluate(rewards, prevStreak, person.Streak, person.TotalCheckins) {
		tag, err := tx.Exec(ctx, `
			INSERT INTO reward_grants (org_id, reward_id, person_id, milestone, session_id)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (reward_id, person_id, session_id) DO NOTHING
		`, p.OrgID, candidate.ID, p.PersonID, candidate.TriggerValue, session.ID)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() > 0 {
			fired = append(fired, candidate)
		}
	}
	person.BadgeCount += len(fired)

	_, err = tx.Exec(ctx, `
		UPDATE persons
		SET streak = $1, total_checkins = $2, badge_count = $3, updated_at = NOW()
		WHERE id = $4
	`, person.Streak, person.TotalCheckins, person.BadgeCount, p.PersonID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &OpenResult{
		Session:      session,
		Person:       person,
		RoomName:     roomName,
		TemplateName: tmplName,
		Fired:        fired,
	}, nil
}

// Close runs the CheckedIn -> CheckedOut transition. A wrong pickup code or a
// missing open session rejects without mutating anything.
func (r *SessionRepository) Close(ctx context.Context, orgID, personID int, pickupCode string, now time.Time) (*models.CheckinSession, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var session models.CheckinSession
	var checkoutEnabled bool
	err = tx.QueryRow(ctx, `
		SELECT s.id, s.org_id, s.person_id, s.family_id, s.template_id, s.room_id,
			s.pickup_code, s.opened_at, t.checkout_enabled
		FROM checkin_sessions s
		JOIN templates t ON s.template_id = t.id
		WHERE s.person_id = $1 AND s.org_id = $2 AND s.closed_at IS NULL
		FOR UPDATE OF s
	`, personID, orgID).Scan(&session.ID, &session.OrgID, &session.PersonID,
		&session.FamilyID, &session.TemplateID, &session.RoomID,
		&session.PickupCode, &session.OpenedAt, &checkoutEnabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoOpenSession
	}
	if err != nil {
		return nil, err
	}

	if !checkoutEnabled {
		return nil, ErrCheckoutDisabled
	}
	if session.PickupCode != pickupCode {
		return nil, ErrCodeMismatch
	}

	_, err = tx.Exec(ctx,
		`UPDATE checkin_sessions SET closed_at = $1 WHERE id = $2`, now, session.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	session.ClosedAt = &now
	return &session, nil
}

func (r *SessionRepository) enabledRewards(ctx context.Context, tx pgx.Tx, orgID int) ([]models.Reward, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, org_id, trigger_type, trigger_value, prize, icon, enabled, preset
		FROM rewards WHERE org_id = $1 AND enabled
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []models.Reward
	for rows.Next() {
		var reward models.Reward
		if err := rows.Scan(&reward.ID, &reward.OrgID, &reward.TriggerType,
			&reward.TriggerValue, &reward.Prize, &reward.Icon,
			&reward.Enabled, &reward.Preset); err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}

// ListOpenByOrg returns all currently open sessions with display names for
// the kiosk board
func (r *SessionRepository) ListOpenByOrg(ctx context.Context, orgID int) ([]models.CheckinSession, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT s.id, s.org_id, s.person_id, s.family_id, s.template_id, s.room_id,
			s.pickup_code, s.opened_at, s.closed_at,
			p.display_name, rm.name, t.name
		FROM checkin_sessions s
		JOIN persons p ON s.person_id = p.id
		JOIN rooms rm ON s.room_id = rm.id
		JOIN templates t ON s.template_id = t.id
		WHERE s.org_id = $1 AND s.closed_at IS NULL
		ORDER BY s.opened_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows, true)
}

// ListSince returns all sessions (open and closed) opened after the cutoff,
// which is the sync pull payload's retention window
func (r *SessionRepository) ListSince(ctx context.Context, orgID int, cutoff time.Time) ([]models.CheckinSession, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, org_id, person_id, family_id, template_id, room_id,
			pickup_code, opened_at, closed_at
		FROM checkin_sessions
		WHERE org_id = $1 AND opened_at >= $2
		ORDER BY opened_at
	`, orgID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows, false)
}

func scanSessions(rows pgx.Rows, withNames bool) ([]models.CheckinSession, error) {
	var sessions []models.CheckinSession
	for rows.Next() {
		var s models.CheckinSession
		var err error
		if withNames {
			err = rows.Scan(&s.ID, &s.OrgID, &s.PersonID, &s.FamilyID,
				&s.TemplateID, &s.RoomID, &s.PickupCode, &s.OpenedAt, &s.ClosedAt,
				&s.PersonName, &s.RoomName, &s.TemplateName)
		} else {
			err = rows.Scan(&s.ID, &s.OrgID, &s.PersonID, &s.FamilyID,
				&s.TemplateID, &s.RoomID, &s.PickupCode, &s.OpenedAt, &s.ClosedAt)
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
