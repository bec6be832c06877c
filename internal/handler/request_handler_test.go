package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisworks/aegis-api/internal/middleware"
	"github.com/aegisworks/aegis-api/internal/models"
	"github.com/aegisworks/aegis-api/internal/service"
	"github.com/aegisworks/aegis-api/pkg/response"
)

type workflowRequestRepo struct {
	byID     map[string]*models.SessionRequest
	sequence int
}

func (m *workflowRequestRepo) Create(ctx context.Context, req *models.SessionRequest) error {
	m.sequence++
	req.ID = "req-1"
	req.Status = models.RequestPending
	if m.byID == nil {
		m.byID = make(map[string]*models.SessionRequest)
	}
	m.byID[req.ID] = req
	return nil
}

func (m *workflowRequestRepo) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	req, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (m *workflowRequestRepo) ListPendingByGuide(ctx context.Context, guideID string) ([]models.SessionRequest, error) {
	var out []models.SessionRequest
	for _, req := range m.byID {
		if req.GuideID == guideID && req.Status == models.RequestPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *workflowRequestRepo) ResolveIfPending(ctx context.Context, id string, status models.RequestStatus) (bool, error) {
	req, ok := m.byID[id]
	if !ok || req.Status != models.RequestPending {
		return false, nil
	}
	req.Status = status
	return true, nil
}

type workflowUserRepo struct {
	users map[string]*models.User
}

func (m *workflowUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *workflowUserRepo) FindByIDAndRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	user, err := m.FindByID(ctx, id)
	if err != nil || user.Role != role {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

type workflowNotifier struct {
	inputs []models.NotificationInput
	err    error
}

func (m *workflowNotifier) Notify(ctx context.Context, in models.NotificationInput) (*models.Notification, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, in)
	return &models.Notification{ID: "notif-1"}, nil
}

type workflowSessionRepo struct {
	created []*models.Session
	err     error
}

func (m *workflowSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if m.err != nil {
		return m.err
	}
	session.ID = "sess-1"
	m.created = append(m.created, session)
	return nil
}

type workflowEnv struct {
	router   *gin.Engine
	requests *workflowRequestRepo
	sessions *workflowSessionRepo
	notifier *workflowNotifier
}

func newWorkflowEnv(t *testing.T) *workflowEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &workflowUserRepo{users: map[string]*models.User{
		"guide-1": {ID: "guide-1", Name: "Dana Guide", Email: "dana@example.com", Role: models.RoleGuide},
		"prog-1":  {ID: "prog-1", Name: "Pat Coder", Email: "pat@example.com", Role: models.RoleProgrammer},
	}}
	requests := &workflowRequestRepo{}
	sessions := &workflowSessionRepo{}
	notifier := &workflowNotifier{}

	requestSvc := service.NewRequestService(requests, users, notifier, nil, nil)
	mentorshipSvc := service.NewMentorshipService(requestSvc, sessions, notifier, users, nil, nil)
	handler := NewRequestHandler(requestSvc, mentorshipSvc, service.NewMetricsService())

	router := gin.New()
	router.POST("/api/request-session", func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "prog-1", Role: models.RoleProgrammer})
		handler.Submit(c)
	})
	router.GET("/api/session-requests/:guide_id", handler.ListPending)
	router.PUT("/api/session-requests/:id/update", handler.Decide)

	return &workflowEnv{router: router, requests: requests, sessions: sessions, notifier: notifier}
}

func (e *workflowEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestRequestWorkflowApproveEndToEnd(t *testing.T) {
	env := newWorkflowEnv(t)

	w := env.do(t, http.MethodPost, "/api/request-session", gin.H{"guide_id": "guide-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/session-requests/guide-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/session-requests/req-1/update", gin.H{
		"status":       "approved",
		"title":        "Go Interview Prep",
		"meeting_link": "https://meet.example/abc",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// One session, and notifications for submission plus approval.
	require.Len(t, env.sessions.created, 1)
	assert.Equal(t, "https://meet.example/abc", env.sessions.created[0].MeetingLink)
	require.Len(t, env.notifier.inputs, 2)
	assert.Equal(t, models.NotifySessionApproved, env.notifier.inputs[1].Kind)

	// The pending list drains once the request is resolved.
	w = env.do(t, http.MethodGet, "/api/session-requests/guide-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "req-1")
}

func TestRequestWorkflowSecondDecisionConflicts(t *testing.T) {
	env := newWorkflowEnv(t)

	env.do(t, http.MethodPost, "/api/request-session", gin.H{"guide_id": "guide-1"})

	w := env.do(t, http.MethodPut, "/api/session-requests/req-1/update", gin.H{"status": "rejected"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/session-requests/req-1/update", gin.H{
		"status":       "approved",
		"meeting_link": "https://meet.example/abc",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_STATE", envelope.Error.Code)

	// The rejection stands; the late approval changes nothing.
	assert.Equal(t, models.RequestRejected, env.requests.byID["req-1"].Status)
	assert.Empty(t, env.sessions.created)
}

func TestRequestWorkflowPartialApprovalSurfaced(t *testing.T) {
	env := newWorkflowEnv(t)
	env.sessions.err = sql.ErrConnDone

	env.do(t, http.MethodPost, "/api/request-session", gin.H{"guide_id": "guide-1"})

	w := env.do(t, http.MethodPut, "/api/session-requests/req-1/update", gin.H{
		"status":       "approved",
		"meeting_link": "https://meet.example/abc",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "APPROVAL_INCOMPLETE", envelope.Error.Code)

	// Fail-forward: the ledger keeps the approval.
	assert.Equal(t, models.RequestApproved, env.requests.byID["req-1"].Status)
}

func TestRequestWorkflowUnknownRequest(t *testing.T) {
	env := newWorkflowEnv(t)

	w := env.do(t, http.MethodPut, "/api/session-requests/ghost/update", gin.H{"status": "rejected"})
	require.Equal(t, http.StatusNotFound, w.Code)
}
