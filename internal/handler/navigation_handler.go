package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pm-ajay/adarsh-gram-api/internal/service"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
	"github.com/pm-ajay/adarsh-gram-api/pkg/response"
)

// NavigationHandler serves the section list for the authenticated role.
type NavigationHandler struct {
	service *service.NavigationService
}

// NewNavigationHandler constructs the handler.
func NewNavigationHandler(svc *service.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: svc}
}

// Sections godoc
// @Summary List accessible sections
// @Description Returns the portal sections the current role may open, in menu order
// @Tags Navigation
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /navigation/sections [get]
func (h *NavigationHandler) Sections(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sections := h.service.SectionsForRole(claims.Role)
	response.JSON(c, http.StatusOK, sections, nil)
}
