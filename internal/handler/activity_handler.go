package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/service"
	"github.com/harborwatch/marinetrack/pkg/response"
)

// ActivityHandler handles HTTP requests for timeline, stats and heatmap queries
type ActivityHandler struct {
	query *service.QueryService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(query *service.QueryService) *ActivityHandler {
	return &ActivityHandler{query: query}
}

// GetTimeline handles GET /api/v1/activity/timeline
func (h *ActivityHandler) GetTimeline(c *gin.Context) {
	var filter models.TimelineFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	timeline, err := h.query.Timeline(c.Request.Context(), filter.LookbackHours)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, timeline)
}

// GetStats handles GET /api/v1/activity/stats
func (h *ActivityHandler) GetStats(c *gin.Context) {
	stats, err := h.query.CurrentStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, stats)
}

// GetHeatmap handles GET /api/v1/activity/heatmap
func (h *ActivityHandler) GetHeatmap(c *gin.Context) {
	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	bins, err := h.query.TimelineHeatmap(c.Request.Context(),
		models.TimeRange{Start: filter.Start, End: filter.End}, filter.Bins)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, bins)
}
