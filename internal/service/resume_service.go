package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/client"
	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

type resumeScorer interface {
	Score(ctx context.Context, req client.ScoreRequest) (*models.ResumeAnalysis, error)
}

type resumeStorage interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

// ResumeFile is an uploaded resume held in memory for scoring.
type ResumeFile struct {
	Name string
	Data []byte
}

// ResumeService scores uploaded resumes through the external scoring
// service and ranks stored jobs against them.
type ResumeService struct {
	scorer     resumeScorer
	storage    resumeStorage
	jobs       jobRepository
	allowedExt map[string]struct{}
	maxSize    int64
	logger     *zap.Logger
}

// NewResumeService constructs the service.
func NewResumeService(scorer resumeScorer, storage resumeStorage, jobs jobRepository, allowedExtensions []string, maxSize int64, logger *zap.Logger) *ResumeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(allowedExtensions) == 0 {
		allowedExtensions = []string{"pdf", "docx", "doc"}
	}
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	return &ResumeService{scorer: scorer, storage: storage, jobs: jobs, allowedExt: allowed, maxSize: maxSize, logger: logger}
}

// ValidateFile checks the upload's extension and size before any scoring.
func (s *ResumeService) ValidateFile(file ResumeFile) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Name), "."))
	if _, ok := s.allowedExt[ext]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unsupported resume file type")
	}
	if int64(len(file.Data)) > s.maxSize {
		return appErrors.Clone(appErrors.ErrValidation, "resume file too large")
	}
	return nil
}

// Analyze scores one resume against a job description. The uploaded file is
// staged on disk only for the duration of the call.
func (s *ResumeService) Analyze(ctx context.Context, file ResumeFile, jobDescription string) (*models.ResumeAnalysis, error) {
	if err := s.ValidateFile(file); err != nil {
		return nil, err
	}

	staged := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(file.Name))
	if _, err := s.storage.Save(staged, file.Data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store resume")
	}
	defer func() {
		if err := s.storage.Delete(staged); err != nil {
			s.logger.Warn("failed to remove staged resume", zap.String("file", staged), zap.Error(err))
		}
	}()

	analysis, err := s.scorer.Score(ctx, client.ScoreRequest{
		FileName:       file.Name,
		Content:        file.Data,
		JobDescription: jobDescription,
	})
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

// FindJobs scores the resume against every stored posting and returns the
// matches ranked best first. Postings with no overlap are omitted.
func (s *ResumeService) FindJobs(ctx context.Context, file ResumeFile, jobDescription string) (*models.JobFindingResult, error) {
	analysis, err := s.Analyze(ctx, file, jobDescription)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list jobs")
	}

	var matched []models.MatchedJob
	for _, job := range jobs {
		jobText := strings.TrimSpace(job.Description + " " + job.Requirements)
		verdict, err := s.scorer.Score(ctx, client.ScoreRequest{
			FileName:       file.Name,
			Content:        file.Data,
			JobDescription: jobText,
		})
		if err != nil {
			s.logger.Warn("job match scoring failed", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}
		if verdict.Score <= 0 {
			continue
		}
		location := job.Location
		if location == "" {
			location = job.CompanyName
		}
		matched = append(matched, models.MatchedJob{
			JobID:        job.ID,
			Title:        job.Title,
			Company:      job.CompanyName,
			Industry:     job.Industry,
			Location:     location,
			Score:        verdict.Score,
			Requirements: job.Requirements,
		})
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Score > matched[j].Score })

	return &models.JobFindingResult{Analysis: *analysis, MatchedJobs: matched}, nil
}
