package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/aegisworks/aegis-api/internal/service"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
	"github.com/aegisworks/aegis-api/pkg/response"
)

// ResumeHandler exposes resume analysis and recruiter screening.
type ResumeHandler struct {
	resumes   *service.ResumeService
	screening *service.ScreeningService
	metrics   *service.MetricsService
}

// NewResumeHandler creates a new handler.
func NewResumeHandler(resumes *service.ResumeService, screening *service.ScreeningService, metrics *service.MetricsService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes, screening: screening, metrics: metrics}
}

func readUpload(header *multipart.FileHeader) (service.ResumeFile, error) {
	file, err := header.Open()
	if err != nil {
		return service.ResumeFile{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.ResumeFile{}, err
	}
	return service.ResumeFile{Name: filepath.Base(header.Filename), Data: data}, nil
}

// Analyze godoc
// @Summary Score a resume against a job description
// @Tags Resume
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "Resume file"
// @Param job_description formData string true "Job description"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /analyze-resume [post]
func (h *ResumeHandler) Analyze(c *gin.Context) {
	header, err := c.FormFile("resume")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "resume file required"))
		return
	}
	upload, err := readUpload(header)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read resume upload"))
		return
	}

	analysis, err := h.resumes.Analyze(c.Request.Context(), upload, c.PostForm("job_description"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis, nil)
}

// Screen godoc
// @Summary Screen a batch of resumes
// @Description Score uploaded resumes against a job description and rank candidates
// @Tags Resume
// @Accept multipart/form-data
// @Produce json
// @Param resumes formData file true "Resume files"
// @Param job_description formData string true "Job description"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /resume/screen [post]
func (h *ResumeHandler) Screen(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "multipart form required"))
		return
	}

	headers := form.File["resumes"]
	uploads := make([]service.ResumeFile, 0, len(headers))
	for _, header := range headers {
		upload, err := readUpload(header)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read resume upload"))
			return
		}
		uploads = append(uploads, upload)
	}

	result, err := h.screening.Screen(c.Request.Context(), c.PostForm("job_description"), uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordScreeningRun()
	response.JSON(c, http.StatusOK, result, nil)
}

// DownloadReport godoc
// @Summary Download a screening report
// @Description Serve the CSV report behind a signed, expiring token
// @Tags Resume
// @Produce text/csv
// @Param token path string true "Signed report token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /resume/screen/reports/{token} [get]
func (h *ResumeHandler) DownloadReport(c *gin.Context) {
	file, err := h.screening.OpenReport(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(file.Name()))
	c.Header("Content-Type", "text/csv")
	if _, err := io.Copy(c.Writer, file); err != nil {
		c.Abort()
	}
}

// FindJobs godoc
// @Summary Match a resume against stored job postings
// @Tags Resume
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "Resume file"
// @Param job_description formData string false "Target role description"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /resume/job-finding [post]
func (h *ResumeHandler) FindJobs(c *gin.Context) {
	header, err := c.FormFile("resume")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "resume file required"))
		return
	}
	upload, err := readUpload(header)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read resume upload"))
		return
	}

	result, err := h.resumes.FindJobs(c.Request.Context(), upload, c.PostForm("job_description"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
