package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

type mockSessionRepo struct {
	sessions  []*models.Session
	createErr error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	session.ID = "sess-1"
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockSessionRepo) ListAll(ctx context.Context) ([]models.Session, error) {
	out := make([]models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSessionRepo) ListByGuide(ctx context.Context, guideID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.GuideID == guideID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) ListByProgrammerEmail(ctx context.Context, email string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.ProgrammerEmail == email {
			out = append(out, *s)
		}
	}
	return out, nil
}

type mockRequestApprover struct {
	pairs [][2]string
	err   error
}

func (m *mockRequestApprover) ApprovePendingByPair(ctx context.Context, guideID, programmerEmail string) error {
	if m.err != nil {
		return m.err
	}
	m.pairs = append(m.pairs, [2]string{guideID, programmerEmail})
	return nil
}

type mockSessionUsers struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func (m *mockSessionUsers) FindByIDAndRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	user, ok := m.byID[id]
	if !ok || user.Role != role {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockSessionUsers) FindByEmailAndRole(ctx context.Context, email string, role models.UserRole) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok || user.Role != role {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newSessionFixtures() (*mockSessionRepo, *mockRequestApprover, *mockSessionUsers, *mockNotifier) {
	guide := &models.User{ID: "guide-1", Name: "Dana Guide", Role: models.RoleGuide}
	programmer := &models.User{ID: "prog-1", Name: "Pat Coder", Email: "pat@example.com", Role: models.RoleProgrammer}
	users := &mockSessionUsers{
		byID:    map[string]*models.User{"guide-1": guide},
		byEmail: map[string]*models.User{"pat@example.com": programmer},
	}
	return &mockSessionRepo{}, &mockRequestApprover{}, users, &mockNotifier{}
}

func validDirectSession() models.CreateSessionRequest {
	return models.CreateSessionRequest{
		Title:           "Intro to Backend Careers",
		Description:     "Resume and roadmap review",
		MeetingLink:     "https://meet.example/xyz",
		GuideID:         "guide-1",
		ProgrammerEmail: "pat@example.com",
	}
}

func TestSessionServiceCreateDirect(t *testing.T) {
	repo, approver, users, notifier := newSessionFixtures()
	svc := NewSessionService(repo, approver, users, notifier, nil, nil)

	session, err := svc.CreateDirect(context.Background(), validDirectSession())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)

	// Pending requests from the pair collapse into the approved state.
	require.Len(t, approver.pairs, 1)
	assert.Equal(t, [2]string{"guide-1", "pat@example.com"}, approver.pairs[0])

	require.Len(t, notifier.inputs, 1)
	assert.Equal(t, "prog-1", notifier.inputs[0].UserID)
	assert.Equal(t, models.NotifySessionScheduled, notifier.inputs[0].Kind)
	assert.Equal(t, "Intro to Backend Careers", notifier.inputs[0].SessionTitle)
}

func TestSessionServiceCreateDirectUnknownGuide(t *testing.T) {
	repo, approver, users, notifier := newSessionFixtures()
	svc := NewSessionService(repo, approver, users, notifier, nil, nil)

	req := validDirectSession()
	req.GuideID = "missing"
	_, err := svc.CreateDirect(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, repo.sessions)
}

func TestSessionServiceCreateDirectUnregisteredProgrammer(t *testing.T) {
	repo, approver, users, notifier := newSessionFixtures()
	svc := NewSessionService(repo, approver, users, notifier, nil, nil)

	req := validDirectSession()
	req.ProgrammerEmail = "stranger@example.com"
	session, err := svc.CreateDirect(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Empty(t, notifier.inputs)
}

func TestSessionServiceCreateDirectApproverFailureIsNonFatal(t *testing.T) {
	repo, approver, users, notifier := newSessionFixtures()
	approver.err = errors.New("update failed")
	svc := NewSessionService(repo, approver, users, notifier, nil, nil)

	session, err := svc.CreateDirect(context.Background(), validDirectSession())
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
}

func TestSessionServiceCreateDirectValidation(t *testing.T) {
	repo, approver, users, notifier := newSessionFixtures()
	svc := NewSessionService(repo, approver, users, notifier, nil, nil)

	req := validDirectSession()
	req.MeetingLink = "not-a-url"
	_, err := svc.CreateDirect(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSessionServiceListFilters(t *testing.T) {
	repo, approver, users, notifier := newSessionFixtures()
	svc := NewSessionService(repo, approver, users, notifier, nil, nil)

	_, err := svc.CreateDirect(context.Background(), validDirectSession())
	require.NoError(t, err)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	forGuide, err := svc.ListForGuide(context.Background(), "guide-1")
	require.NoError(t, err)
	assert.Len(t, forGuide, 1)

	forProgrammer, err := svc.ListForProgrammer(context.Background(), "pat@example.com")
	require.NoError(t, err)
	assert.Len(t, forProgrammer, 1)

	none, err := svc.ListForGuide(context.Background(), "guide-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}
