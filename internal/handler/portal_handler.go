package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pm-ajay/adarsh-gram-api/internal/dto"
	"github.com/pm-ajay/adarsh-gram-api/internal/middleware"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
	"github.com/pm-ajay/adarsh-gram-api/pkg/response"
)

type portalService interface {
	PublicSummary(ctx context.Context) (*dto.PublicPortalResponse, bool, error)
}

// PortalHandler serves the unauthenticated transparency endpoint.
type PortalHandler struct {
	service portalService
}

// NewPortalHandler constructs the handler.
func NewPortalHandler(service portalService) *PortalHandler {
	return &PortalHandler{service: service}
}

// Summary godoc
// @Summary Public transparency summary
// @Description Aggregate scheme figures safe for anonymous consumption
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /portal/summary [get]
func (h *PortalHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.PublicSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, nil, meta)
}
