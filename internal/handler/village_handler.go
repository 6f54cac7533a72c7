package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	"github.com/pm-ajay/adarsh-gram-api/internal/service"
	"github.com/pm-ajay/adarsh-gram-api/pkg/response"
)

// VillageHandler exposes village browsing endpoints.
type VillageHandler struct {
	service *service.VillageService
}

// NewVillageHandler constructs the handler.
func NewVillageHandler(svc *service.VillageService) *VillageHandler {
	return &VillageHandler{service: svc}
}

// List godoc
// @Summary List villages
// @Description List villages filtered by free-text query and priority band
// @Tags Villages
// @Produce json
// @Param q query string false "Search by name or district"
// @Param priority query string false "Priority band (high, medium, low, all)"
// @Success 200 {object} response.Envelope
// @Router /villages [get]
func (h *VillageHandler) List(c *gin.Context) {
	filter := models.VillageFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Priority: models.PriorityBand(strings.TrimSpace(c.Query("priority"))),
	}

	villages, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, villages, nil)
}

// Get godoc
// @Summary Village detail
// @Description Village profile with classified infrastructure facilities
// @Tags Villages
// @Produce json
// @Param id path string true "Village ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /villages/{id} [get]
func (h *VillageHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}
