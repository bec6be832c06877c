package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aegisworks/aegis-api/internal/client"
	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
	"github.com/aegisworks/aegis-api/pkg/export"
	"github.com/aegisworks/aegis-api/pkg/jobs"
)

// ShortlistThreshold is the ATS score at and above which a candidate is
// shortlisted.
const ShortlistThreshold = 70

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type reportSigner interface {
	Generate(runID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (runID, relPath string, expiresAt time.Time, err error)
}

type screeningOutcome struct {
	candidate *models.Candidate
	err       error
}

type screeningTask struct {
	file           ResumeFile
	jobDescription string
	out            chan<- screeningOutcome
}

// ScreeningService scores batches of resumes for recruiters. Scoring fans
// out across the worker queue so one slow resume does not serialise the run.
type ScreeningService struct {
	scorer  resumeScorer
	resumes *ResumeService
	queue   *jobs.Queue
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage reportStorage
	signer  reportSigner
	logger  *zap.Logger
}

// NewScreeningService constructs the service and its worker queue. Call
// Start before screening and Stop on shutdown.
func NewScreeningService(scorer resumeScorer, resumes *ResumeService, storage reportStorage, signer reportSigner, workers, retries int, logger *zap.Logger) *ScreeningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ScreeningService{
		scorer:  scorer,
		resumes: resumes,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: storage,
		signer:  signer,
		logger:  logger,
	}
	s.queue = jobs.NewQueue("resume-screening", s.handleTask, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		Logger:     logger,
	})
	return s
}

// Start launches the screening workers.
func (s *ScreeningService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the screening workers.
func (s *ScreeningService) Stop() { s.queue.Stop() }

func (s *ScreeningService) handleTask(ctx context.Context, job jobs.Job) error {
	task, ok := job.Payload.(*screeningTask)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	analysis, err := s.scorer.Score(ctx, client.ScoreRequest{
		FileName:       task.file.Name,
		Content:        task.file.Data,
		JobDescription: task.jobDescription,
	})
	if err != nil {
		// Report the failure to the collector; retrying inside the queue
		// would leave the run waiting on a result that already arrived.
		task.out <- screeningOutcome{err: err}
		return nil
	}

	name := candidateNameFromFile(task.file.Name)
	task.out <- screeningOutcome{candidate: &models.Candidate{
		Name:          name,
		Email:         placeholderEmail(name),
		Score:         analysis.Score,
		MatchedSkills: analysis.SkillsFound,
		MissingSkills: analysis.SkillsMissing,
		FileName:      filepath.Base(task.file.Name),
		IsShortlisted: analysis.Score >= ShortlistThreshold,
	}}
	return nil
}

// Screen scores every readable resume in the batch against the job
// description and ranks the candidates. Individual scoring failures skip
// the resume rather than failing the run; a run where every resume failed
// is reported as a dependency error.
func (s *ScreeningService) Screen(ctx context.Context, jobDescription string, files []ResumeFile) (*models.ScreeningResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "job description required")
	}

	valid := make([]ResumeFile, 0, len(files))
	for _, f := range files {
		if err := s.resumes.ValidateFile(f); err != nil {
			s.logger.Warn("skipping invalid resume", zap.String("file", f.Name), zap.Error(err))
			continue
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no valid resume files provided")
	}

	out := make(chan screeningOutcome, len(valid))
	for _, f := range valid {
		task := &screeningTask{file: f, jobDescription: jobDescription, out: out}
		if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "score-resume", Payload: task}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue screening work")
		}
	}

	var (
		candidates []models.Candidate
		failures   int
	)
	for i := 0; i < len(valid); i++ {
		select {
		case <-ctx.Done():
			return nil, appErrors.Wrap(ctx.Err(), appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "screening cancelled")
		case outcome := <-out:
			if outcome.err != nil {
				failures++
				continue
			}
			candidates = append(candidates, *outcome.candidate)
		}
	}
	if len(candidates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrDependency, "scoring failed for every resume")
	}
	if failures > 0 {
		s.logger.Warn("screening run completed with failures", zap.Int("failed", failures), zap.Int("scored", len(candidates)))
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	result := &models.ScreeningResult{RunID: uuid.NewString(), Candidates: candidates}
	for _, c := range candidates {
		if c.IsShortlisted {
			result.Shortlisted = append(result.Shortlisted, c)
		} else {
			result.Rejected = append(result.Rejected, c)
		}
	}
	result.Summary = models.ScreeningSummary{
		Total:       len(candidates),
		Shortlisted: len(result.Shortlisted),
		Rejected:    len(result.Rejected),
	}
	if len(candidates) > 0 {
		rate := float64(len(result.Shortlisted)) / float64(len(candidates)) * 100
		result.Summary.ShortlistRate = float64(int(rate*10)) / 10
	}

	if url, err := s.exportReport(result); err != nil {
		s.logger.Warn("failed to export screening report", zap.String("run_id", result.RunID), zap.Error(err))
	} else {
		result.ReportURL = url
	}

	return result, nil
}

// exportReport renders CSV and PDF reports for the run and returns a signed
// download path for the CSV.
func (s *ScreeningService) exportReport(result *models.ScreeningResult) (string, error) {
	if s.storage == nil || s.signer == nil {
		return "", nil
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Email", "Score", "Matched Skills", "Missing Skills", "Shortlisted"},
	}
	for _, c := range result.Candidates {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":           c.Name,
			"Email":          c.Email,
			"Score":          strconv.Itoa(c.Score),
			"Matched Skills": strings.Join(c.MatchedSkills, ", "),
			"Missing Skills": strings.Join(c.MissingSkills, ", "),
			"Shortlisted":    strconv.FormatBool(c.IsShortlisted),
		})
	}

	csvBytes, err := s.csv.Render(dataset)
	if err != nil {
		return "", err
	}
	csvPath := filepath.Join("reports", result.RunID+".csv")
	if _, err := s.storage.Save(csvPath, csvBytes); err != nil {
		return "", err
	}

	if pdfBytes, err := s.pdf.Render(dataset, "Resume Screening Report"); err != nil {
		s.logger.Warn("failed to render pdf report", zap.String("run_id", result.RunID), zap.Error(err))
	} else if _, err := s.storage.Save(filepath.Join("reports", result.RunID+".pdf"), pdfBytes); err != nil {
		s.logger.Warn("failed to store pdf report", zap.String("run_id", result.RunID), zap.Error(err))
	}

	token, _, err := s.signer.Generate(result.RunID, csvPath)
	if err != nil {
		return "", err
	}
	return "/api/resume/screen/reports/" + token, nil
}

// OpenReport validates a signed token and opens the referenced report file.
func (s *ScreeningService) OpenReport(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired report link")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	return file, nil
}

func candidateNameFromFile(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")

	words := strings.Fields(base)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func placeholderEmail(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@email.com"
}
