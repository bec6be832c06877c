package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegisworks/aegis-api/internal/models"
	"github.com/aegisworks/aegis-api/internal/service"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
	"github.com/aegisworks/aegis-api/pkg/response"
)

// JobHandler exposes recruiter job postings.
type JobHandler struct {
	service *service.JobService
}

// NewJobHandler creates a new handler.
func NewJobHandler(svc *service.JobService) *JobHandler {
	return &JobHandler{service: svc}
}

// Upsert godoc
// @Summary Post or update a job
// @Description Posting the same title for the same company updates the existing row
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body models.UpsertJobRequest true "Job payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /jobs [post]
func (h *JobHandler) Upsert(c *gin.Context) {
	var req models.UpsertJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid job payload"))
		return
	}

	recruiterID := ""
	if claims := claimsFromContext(c); claims != nil {
		recruiterID = claims.UserID
	}

	result, err := h.service.Upsert(c.Request.Context(), recruiterID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Updated {
		response.JSON(c, http.StatusOK, result, nil)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List all job postings
// @Tags Jobs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, jobs, nil)
}

// Get godoc
// @Summary Fetch one job posting
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}
