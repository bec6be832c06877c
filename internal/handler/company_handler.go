package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegisworks/aegis-api/internal/service"
	"github.com/aegisworks/aegis-api/pkg/response"
)

// CompanyHandler exposes the company directory.
type CompanyHandler struct {
	service *service.CompanyService
}

// NewCompanyHandler creates a new handler.
func NewCompanyHandler(svc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: svc}
}

// List godoc
// @Summary List companies with their open roles
// @Tags Companies
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, companies, nil)
}
