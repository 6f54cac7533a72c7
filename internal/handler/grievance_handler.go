package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	"github.com/pm-ajay/adarsh-gram-api/internal/service"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
	"github.com/pm-ajay/adarsh-gram-api/pkg/response"
)

// GrievanceHandler exposes grievance intake and workflow endpoints.
type GrievanceHandler struct {
	service *service.GrievanceService
}

// NewGrievanceHandler constructs the handler.
func NewGrievanceHandler(svc *service.GrievanceService) *GrievanceHandler {
	return &GrievanceHandler{service: svc}
}

// List godoc
// @Summary List grievances
// @Description List grievances filtered by free-text query, status and priority
// @Tags Grievances
// @Produce json
// @Param q query string false "Search by title, citizen name or category"
// @Param status query string false "Status (pending, in_review, resolved, closed, all)"
// @Param priority query string false "Priority (urgent, high, medium, low, all)"
// @Success 200 {object} response.Envelope
// @Router /grievances [get]
func (h *GrievanceHandler) List(c *gin.Context) {
	filter := models.GrievanceFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Status:   models.GrievanceStatus(strings.TrimSpace(c.Query("status"))),
		Priority: models.GrievancePriority(strings.TrimSpace(c.Query("priority"))),
	}

	grievances, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grievances, nil)
}

// Get godoc
// @Summary Grievance detail
// @Tags Grievances
// @Produce json
// @Param id path string true "Grievance ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grievances/{id} [get]
func (h *GrievanceHandler) Get(c *gin.Context) {
	grievance, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grievance, nil)
}

// Create godoc
// @Summary Submit a grievance
// @Description New grievances always enter the queue as pending
// @Tags Grievances
// @Accept json
// @Produce json
// @Param payload body models.CreateGrievanceRequest true "Grievance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grievances [post]
func (h *GrievanceHandler) Create(c *gin.Context) {
	var req models.CreateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grievance payload"))
		return
	}

	grievance, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, grievance)
}

// UpdateStatus godoc
// @Summary Update grievance status
// @Tags Grievances
// @Accept json
// @Produce json
// @Param id path string true "Grievance ID"
// @Param payload body models.UpdateGrievanceStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grievances/{id}/status [patch]
func (h *GrievanceHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateGrievanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	grievance, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grievance, nil)
}

// Respond godoc
// @Summary Record official response
// @Description Stores the response and moves pending grievances into review
// @Tags Grievances
// @Accept json
// @Produce json
// @Param id path string true "Grievance ID"
// @Param payload body models.GrievanceResponseRequest true "Response payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grievances/{id}/response [post]
func (h *GrievanceHandler) Respond(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.GrievanceResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid response payload"))
		return
	}

	grievance, err := h.service.RecordResponse(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grievance, nil)
}
