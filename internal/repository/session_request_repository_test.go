package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisworks/aegis-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestCreateSessionRequestDefaultsToPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRequestRepository(db)

	mock.ExpectExec("INSERT INTO session_requests").WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.SessionRequest{
		GuideID:         "g1",
		ProgrammerID:    "p1",
		ProgrammerName:  "Ada",
		ProgrammerEmail: "ada@example.com",
	}
	err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPendingByGuideFiltersTerminal(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRequestRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "guide_id", "programmer_id", "programmer_name", "programmer_email", "status", "created_at"}).
		AddRow("r1", "g1", "p1", "Ada", "ada@example.com", "pending", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, guide_id, programmer_id, programmer_name, programmer_email, status, created_at\nFROM session_requests WHERE guide_id = $1 AND status = 'pending' ORDER BY created_at ASC")).
		WithArgs("g1").
		WillReturnRows(rows)

	requests, err := repo.ListPendingByGuide(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, models.RequestPending, requests[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveIfPendingTransitions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE session_requests SET status = $1 WHERE id = $2 AND status = 'pending'")).
		WithArgs(string(models.RequestApproved), "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ResolveIfPending(context.Background(), "r1", models.RequestApproved)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveIfPendingRejectsSecondResolve(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE session_requests SET status = $1 WHERE id = $2 AND status = 'pending'")).
		WithArgs(string(models.RequestRejected), "r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.ResolveIfPending(context.Background(), "r1", models.RequestRejected)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
