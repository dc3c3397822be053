package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/service"
	"github.com/harborwatch/marinetrack/pkg/response"
)

// EncounterHandler handles HTTP requests for encounter queries
type EncounterHandler struct {
	query *service.QueryService
}

// NewEncounterHandler creates a new encounter handler
func NewEncounterHandler(query *service.QueryService) *EncounterHandler {
	return &EncounterHandler{query: query}
}

// GetEncounters handles GET /api/v1/encounters
func (h *EncounterHandler) GetEncounters(c *gin.Context) {
	var filter models.RangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	encounters, err := h.query.Encounters(c.Request.Context(),
		models.TimeRange{Start: filter.Start, End: filter.End})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, encounters)
}
