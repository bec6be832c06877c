package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegisworks/aegis-api/internal/models"
	"github.com/aegisworks/aegis-api/internal/service"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
	"github.com/aegisworks/aegis-api/pkg/response"
)

// RequestHandler exposes the session-request workflow: programmers submit,
// guides review and decide.
type RequestHandler struct {
	requests   *service.RequestService
	mentorship *service.MentorshipService
	metrics    *service.MetricsService
}

// NewRequestHandler creates a new handler.
func NewRequestHandler(requests *service.RequestService, mentorship *service.MentorshipService, metrics *service.MetricsService) *RequestHandler {
	return &RequestHandler{requests: requests, mentorship: mentorship, metrics: metrics}
}

// Submit godoc
// @Summary Request a mentorship session
// @Description Submit a session request to a guide
// @Tags Mentorship
// @Accept json
// @Produce json
// @Param payload body models.SubmitRequestRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /request-session [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	var req models.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session request payload"))
		return
	}

	// Programmers may only request sessions for themselves.
	if claims := claimsFromContext(c); claims != nil && req.ProgrammerID == "" {
		req.ProgrammerID = claims.UserID
	}

	created, err := h.requests.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// ListPending godoc
// @Summary List a guide's pending requests
// @Description Unresolved session requests for the guide, oldest first
// @Tags Mentorship
// @Produce json
// @Param guide_id path string true "Guide ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /session-requests/{guide_id} [get]
func (h *RequestHandler) ListPending(c *gin.Context) {
	pending, err := h.requests.ListPending(c.Request.Context(), c.Param("guide_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending, nil)
}

// Decide godoc
// @Summary Resolve a session request
// @Description Approve or reject a pending request. Approval creates the
// session and notifies the programmer; a request that is already resolved
// fails with INVALID_STATE, and a partially applied approval is reported
// as APPROVAL_INCOMPLETE.
// @Tags Mentorship
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body models.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /session-requests/{id}/update [put]
func (h *RequestHandler) Decide(c *gin.Context) {
	var req models.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	result, err := h.mentorship.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordDecision(string(req.Status))
	response.JSON(c, http.StatusOK, result, nil)
}
