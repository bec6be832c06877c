package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisworks/aegis-api/internal/client"
	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
	"github.com/aegisworks/aegis-api/pkg/storage"
)

type batchScorer struct {
	// scores maps resume file names to the score each receives.
	scores  map[string]int
	failAll bool
}

func (b *batchScorer) Score(ctx context.Context, req client.ScoreRequest) (*models.ResumeAnalysis, error) {
	if b.failAll {
		return nil, appErrors.Clone(appErrors.ErrDependency, "scoring service unavailable")
	}
	score, ok := b.scores[req.FileName]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrDependency, "unknown resume")
	}
	return &models.ResumeAnalysis{Score: score, SkillsFound: []string{"go"}}, nil
}

func newScreeningService(t *testing.T, scorer resumeScorer) *ScreeningService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	resumes := NewResumeService(scorer, store, &mockJobRepo{}, nil, 0, nil)

	svc := NewScreeningService(scorer, resumes, store, signer, 2, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		svc.Stop()
		cancel()
	})
	return svc
}

func TestScreeningServiceScreen(t *testing.T) {
	scorer := &batchScorer{scores: map[string]int{
		"alice_smith.pdf": 85,
		"bob_jones.pdf":   70,
		"carol_wu.pdf":    40,
	}}
	svc := newScreeningService(t, scorer)

	result, err := svc.Screen(context.Background(), "Go backend role", []ResumeFile{
		{Name: "alice_smith.pdf", Data: []byte("a")},
		{Name: "bob_jones.pdf", Data: []byte("b")},
		{Name: "carol_wu.pdf", Data: []byte("c")},
	})
	require.NoError(t, err)

	require.Len(t, result.Candidates, 3)
	assert.Equal(t, 85, result.Candidates[0].Score)
	assert.Equal(t, "Alice Smith", result.Candidates[0].Name)
	assert.Equal(t, 40, result.Candidates[2].Score)

	// 70 is the shortlist cutoff, inclusive.
	assert.Len(t, result.Shortlisted, 2)
	assert.Len(t, result.Rejected, 1)
	assert.Equal(t, 3, result.Summary.Total)
	assert.InDelta(t, 66.6, result.Summary.ShortlistRate, 0.05)
	assert.NotEmpty(t, result.ReportURL)
}

func TestScreeningServiceSkipsInvalidFiles(t *testing.T) {
	scorer := &batchScorer{scores: map[string]int{"alice_smith.pdf": 85}}
	svc := newScreeningService(t, scorer)

	result, err := svc.Screen(context.Background(), "Go backend role", []ResumeFile{
		{Name: "alice_smith.pdf", Data: []byte("a")},
		{Name: "malware.exe", Data: []byte("x")},
	})
	require.NoError(t, err)
	assert.Len(t, result.Candidates, 1)
}

func TestScreeningServiceAllScoringFailed(t *testing.T) {
	svc := newScreeningService(t, &batchScorer{failAll: true})

	_, err := svc.Screen(context.Background(), "Go backend role", []ResumeFile{
		{Name: "alice_smith.pdf", Data: []byte("a")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDependency))
}

func TestScreeningServiceRequiresJobDescription(t *testing.T) {
	svc := newScreeningService(t, &batchScorer{})

	_, err := svc.Screen(context.Background(), "   ", []ResumeFile{{Name: "a.pdf", Data: []byte("a")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestScreeningServiceNoValidFiles(t *testing.T) {
	svc := newScreeningService(t, &batchScorer{})

	_, err := svc.Screen(context.Background(), "Go backend role", []ResumeFile{{Name: "x.exe", Data: []byte("x")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestScreeningServiceOpenReport(t *testing.T) {
	scorer := &batchScorer{scores: map[string]int{"alice_smith.pdf": 85}}
	svc := newScreeningService(t, scorer)

	result, err := svc.Screen(context.Background(), "Go backend role", []ResumeFile{
		{Name: "alice_smith.pdf", Data: []byte("a")},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.ReportURL)

	token := result.ReportURL[len("/api/resume/screen/reports/"):]
	file, err := svc.OpenReport(token)
	require.NoError(t, err)
	defer file.Close()

	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Alice Smith")

	_, err = svc.OpenReport("tampered-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
