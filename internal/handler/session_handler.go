package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegisworks/aegis-api/internal/models"
	"github.com/aegisworks/aegis-api/internal/service"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
	"github.com/aegisworks/aegis-api/pkg/response"
)

// SessionHandler exposes scheduled mentorship sessions.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Create godoc
// @Summary Schedule a session directly
// @Description Guide schedules a 1:1 session without a prior request
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body models.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	if claims := claimsFromContext(c); claims != nil && req.GuideID == "" {
		req.GuideID = claims.UserID
	}

	session, err := h.service.CreateDirect(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, session)
}

// List godoc
// @Summary List all sessions
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// ListForGuide godoc
// @Summary List a guide's sessions
// @Tags Sessions
// @Produce json
// @Param guide_id path string true "Guide ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/guide/{guide_id} [get]
func (h *SessionHandler) ListForGuide(c *gin.Context) {
	sessions, err := h.service.ListForGuide(c.Request.Context(), c.Param("guide_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// ListForProgrammer godoc
// @Summary List sessions a programmer was invited to
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/programmer [get]
func (h *SessionHandler) ListForProgrammer(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	sessions, err := h.service.ListForProgrammer(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}
