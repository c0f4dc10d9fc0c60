package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/internal/middleware"
	"checkin-backend/internal/models"
	"checkin-backend/internal/repositories"
	"checkin-backend/internal/services"
)

// stubSessionStore exercises the handler's wire behavior; the state-machine
// rules themselves are covered in the services package
type stubSessionStore struct {
	openErr  error
	closeErr error
	open     map[int]*models.CheckinSession
}

func (s *stubSessionStore) Open(_ context.Context, p repositories.OpenParams) (*repositories.OpenResult, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	session := models.CheckinSession{
		ID: 1, OrgID: p.OrgID, PersonID: p.PersonID, FamilyID: 5,
		TemplateID: p.TemplateID, RoomID: p.RoomID,
		PickupCode: p.PickupCode, OpenedAt: p.Now,
	}
	if s.open == nil {
		s.open = make(map[int]*models.CheckinSession)
	}
	s.open[p.PersonID] = &session
	return &repositories.OpenResult{
		Session:      session,
		Person:       models.Person{ID: p.PersonID, OrgID: p.OrgID, DisplayName: "Ada L", PIN: "111713", Streak: 1},
		RoomName:     "Sprouts",
		TemplateName: "Sunday 9am",
	}, nil
}

func (s *stubSessionStore) Close(_ context.Context, orgID, personID int, pickupCode string, now time.Time) (*models.CheckinSession, error) {
	if s.closeErr != nil {
		return nil, s.closeErr
	}
	session, ok := s.open[personID]
	if !ok {
		return nil, repositories.ErrNoOpenSession
	}
	if session.PickupCode != pickupCode {
		return nil, repositories.ErrCodeMismatch
	}
	session.ClosedAt = &now
	return session, nil
}

func (s *stubSessionStore) ListOpenByOrg(context.Context, int) ([]models.CheckinSession, error) {
	var out []models.CheckinSession
	for _, sess := range s.open {
		out = append(out, *sess)
	}
	return out, nil
}

type stubLookup struct{}

func (stubLookup) GetByPIN(_ context.Context, orgID int, pin string) (*models.Person, error) {
	if pin == "111713" && orgID == 1 {
		return &models.Person{ID: 1, OrgID: 1, DisplayName: "Ada L", PIN: pin}, nil
	}
	return nil, nil
}

func newHandlerFixture(store *stubSessionStore) *CheckinHandler {
	return NewCheckinHandler(services.NewCheckinService(store, stubLookup{}, nil))
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body interface{}, orgID int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(middleware.WithOrgID(req.Context(), orgID))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestOpenHandler_Success(t *testing.T) {
	h := newHandlerFixture(&stubSessionStore{})

	rec := doJSON(t, h.Open, "POST", "/api/checkins",
		models.OpenSessionRequest{PersonID: 1, TemplateID: 2, RoomID: 3}, 1)

	require.Equal(t, http.StatusCreated, rec.Code)
	var event models.CheckedInEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	assert.Equal(t, "Ada L", event.PersonName)
	assert.NotEmpty(t, event.PickupCode)
	assert.NotEmpty(t, event.EventID)
}

func TestOpenHandler_BadBody(t *testing.T) {
	h := newHandlerFixture(&stubSessionStore{})

	req := httptest.NewRequest("POST", "/api/checkins", bytes.NewBufferString("{nope"))
	req = req.WithContext(middleware.WithOrgID(req.Context(), 1))
	rec := httptest.NewRecorder()
	h.Open(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation")
}

func TestOpenHandler_ConflictMapsTo409(t *testing.T) {
	h := newHandlerFixture(&stubSessionStore{openErr: repositories.ErrAlreadyOpen})

	rec := doJSON(t, h.Open, "POST", "/api/checkins",
		models.OpenSessionRequest{PersonID: 1, TemplateID: 2, RoomID: 3}, 1)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "conflict")
}

func TestOpenHandler_CapacityMapsTo409(t *testing.T) {
	h := newHandlerFixture(&stubSessionStore{openErr: repositories.ErrRoomFull})

	rec := doJSON(t, h.Open, "POST", "/api/checkins",
		models.OpenSessionRequest{PersonID: 1, TemplateID: 2, RoomID: 3}, 1)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "capacity")
}

func TestOpenHandler_NoOrgScopeMapsTo401(t *testing.T) {
	h := newHandlerFixture(&stubSessionStore{})

	rec := doJSON(t, h.Open, "POST", "/api/checkins",
		models.OpenSessionRequest{PersonID: 1, TemplateID: 2, RoomID: 3}, 0)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCloseHandler_RoundTrip(t *testing.T) {
	store := &stubSessionStore{}
	h := newHandlerFixture(store)

	rec := doJSON(t, h.Open, "POST", "/api/checkins",
		models.OpenSessionRequest{PersonID: 1, TemplateID: 2, RoomID: 3}, 1)
	require.Equal(t, http.StatusCreated, rec.Code)
	var event models.CheckedInEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))

	rec = doJSON(t, h.Close, "POST", "/api/checkins/close",
		models.CloseSessionRequest{PersonID: 1, PickupCode: event.PickupCode}, 1)
	require.Equal(t, http.StatusOK, rec.Code)

	var session models.CheckinSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.NotNil(t, session.ClosedAt)
}

func TestCloseHandler_WrongCode(t *testing.T) {
	store := &stubSessionStore{}
	h := newHandlerFixture(store)

	doJSON(t, h.Open, "POST", "/api/checkins",
		models.OpenSessionRequest{PersonID: 1, TemplateID: 2, RoomID: 3}, 1)

	rec := doJSON(t, h.Close, "POST", "/api/checkins/close",
		models.CloseSessionRequest{PersonID: 1, PickupCode: "XXXX"}, 1)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLookupHandler(t *testing.T) {
	h := newHandlerFixture(&stubSessionStore{})

	req := httptest.NewRequest("GET", "/api/lookup?pin=111713", nil)
	req = req.WithContext(middleware.WithOrgID(req.Context(), 1))
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var person models.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &person))
	assert.Equal(t, "Ada L", person.DisplayName)
}

func TestLookupHandler_UnknownPIN(t *testing.T) {
	h := newHandlerFixture(&stubSessionStore{})

	req := httptest.NewRequest("GET", "/api/lookup?pin=999999", nil)
	req = req.WithContext(middleware.WithOrgID(req.Context(), 1))
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOpenHandler_EmptyIsArray(t *testing.T) {
	h := newHandlerFixture(&stubSessionStore{})

	req := httptest.NewRequest("GET", "/api/checkins/open", nil)
	req = req.WithContext(middleware.WithOrgID(req.Context(), 1))
	rec := httptest.NewRecorder()
	h.ListOpen(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sessions":[]}`, rec.Body.String())
}
