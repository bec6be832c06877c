package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegisworks/aegis-api/internal/service"
	"github.com/aegisworks/aegis-api/pkg/response"
)

// GuideHandler exposes the guide directory.
type GuideHandler struct {
	service *service.GuideService
}

// NewGuideHandler creates a new handler.
func NewGuideHandler(svc *service.GuideService) *GuideHandler {
	return &GuideHandler{service: svc}
}

// List godoc
// @Summary List available guides
// @Tags Guides
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /guides [get]
func (h *GuideHandler) List(c *gin.Context) {
	guides, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guides, nil)
}
