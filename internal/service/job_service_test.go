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

type mockJobRepo struct {
	jobs    []*models.Job
	updates map[string][3]string
}

func (m *mockJobRepo) Create(ctx context.Context, job *models.Job) error {
	job.ID = "job-1"
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockJobRepo) UpdateDetails(ctx context.Context, id, description, requirements, location string) error {
	if m.updates == nil {
		m.updates = make(map[string][3]string)
	}
	m.updates[id] = [3]string{description, requirements, location}
	return nil
}

func (m *mockJobRepo) FindByTitleAndCompany(ctx context.Context, title, companyID string) (*models.Job, error) {
	for _, job := range m.jobs {
		if job.Title == title && job.CompanyID == companyID {
			return job, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockJobRepo) ListAll(ctx context.Context) ([]models.Job, error) {
	out := make([]models.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, *job)
	}
	return out, nil
}

func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	for _, job := range m.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockCompanyResolver struct {
	company *models.Company
	err     error
}

func (m *mockCompanyResolver) FindOrCreate(ctx context.Context, name string) (*models.Company, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.company, nil
}

func validJobPosting() models.UpsertJobRequest {
	return models.UpsertJobRequest{
		Title:        "Backend Engineer",
		Description:  "Build APIs in Go",
		Requirements: "Go, PostgreSQL, Redis",
		Location:     "Remote",
		CompanyName:  "Aegis Works",
	}
}

func TestJobServiceUpsertCreates(t *testing.T) {
	repo := &mockJobRepo{}
	companies := &mockCompanyResolver{company: &models.Company{ID: "comp-1", Name: "Aegis Works"}}
	svc := NewJobService(repo, companies, nil, nil)

	resp, err := svc.Upsert(context.Background(), "rec-1", validJobPosting())
	require.NoError(t, err)
	assert.False(t, resp.Updated)
	assert.Equal(t, "job-1", resp.JobID)

	require.Len(t, repo.jobs, 1)
	assert.Equal(t, "comp-1", repo.jobs[0].CompanyID)
	assert.Equal(t, "rec-1", repo.jobs[0].RecruiterID)
}

func TestJobServiceUpsertUpdatesExisting(t *testing.T) {
	repo := &mockJobRepo{}
	companies := &mockCompanyResolver{company: &models.Company{ID: "comp-1", Name: "Aegis Works"}}
	svc := NewJobService(repo, companies, nil, nil)

	_, err := svc.Upsert(context.Background(), "rec-1", validJobPosting())
	require.NoError(t, err)

	update := validJobPosting()
	update.Description = "Build and operate APIs in Go"
	resp, err := svc.Upsert(context.Background(), "rec-1", update)
	require.NoError(t, err)
	assert.True(t, resp.Updated)
	assert.Equal(t, "job-1", resp.JobID)

	// Reposting never duplicates the row.
	assert.Len(t, repo.jobs, 1)
	assert.Equal(t, "Build and operate APIs in Go", repo.updates["job-1"][0])
}

func TestJobServiceUpsertCompanyFailure(t *testing.T) {
	repo := &mockJobRepo{}
	companies := &mockCompanyResolver{err: appErrors.Clone(appErrors.ErrInternal, "company lookup failed")}
	svc := NewJobService(repo, companies, nil, nil)

	_, err := svc.Upsert(context.Background(), "rec-1", validJobPosting())
	require.Error(t, err)
	assert.Empty(t, repo.jobs)
}

func TestJobServiceGet(t *testing.T) {
	repo := &mockJobRepo{}
	companies := &mockCompanyResolver{company: &models.Company{ID: "comp-1"}}
	svc := NewJobService(repo, companies, nil, nil)

	_, err := svc.Upsert(context.Background(), "rec-1", validJobPosting())
	require.NoError(t, err)

	job, err := svc.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
