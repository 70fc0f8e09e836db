package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quoteshorts/api/internal/adapters/http/dto"
	"github.com/quoteshorts/api/internal/app"
)

// StatsHandler handles the aggregate statistics endpoint.
type StatsHandler struct {
	service *app.QuoteService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service *app.QuoteService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// Get handles GET /api/v1/stats
// Returns collection-wide aggregates computed at call time.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.StatsFromDomain(stats)))
}

// RegisterStatsRoutes registers the stats route on the given router group.
func (h *StatsHandler) RegisterStatsRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Get)
}
