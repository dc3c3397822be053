package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/service"
	"github.com/harborwatch/marinetrack/pkg/response"
)

// VesselHandler handles HTTP requests for vessel ingest and track queries
type VesselHandler struct {
	ingest *service.IngestService
	query  *service.QueryService
}

// NewVesselHandler creates a new vessel handler
func NewVesselHandler(ingest *service.IngestService, query *service.QueryService) *VesselHandler {
	return &VesselHandler{
		ingest: ingest,
		query:  query,
	}
}

// AppendSample handles POST /api/v1/vessels/:id/samples
func (h *VesselHandler) AppendSample(c *gin.Context) {
	var sample models.PositionSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		response.BadRequest(c, "Invalid sample payload")
		return
	}
	sample.EntityID = c.Param("id")

	stored, err := h.ingest.AppendSample(sample)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, stored)
}

// AppendEvent handles POST /api/v1/vessels/:id/events
func (h *VesselHandler) AppendEvent(c *gin.Context) {
	var event models.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		response.BadRequest(c, "Invalid event payload")
		return
	}
	event.EntityID = c.Param("id")

	stored, err := h.ingest.AppendEvent(event)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, stored)
}

// GetVessels handles GET /api/v1/vessels
func (h *VesselHandler) GetVessels(c *gin.Context) {
	var filter models.RangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	vessels, err := h.query.VesselsInRange(models.TimeRange{Start: filter.Start, End: filter.End})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, vessels)
}

// GetTrack handles GET /api/v1/vessels/:id/track
func (h *VesselHandler) GetTrack(c *gin.Context) {
	var filter models.RangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	tracks, err := h.query.TracksFor([]string{c.Param("id")}, models.TimeRange{Start: filter.Start, End: filter.End})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tracks[0])
}

// GetTracks handles GET /api/v1/vessels/tracks?ids=a,b,c
func (h *VesselHandler) GetTracks(c *gin.Context) {
	var filter models.TracksFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.IDs == "" {
		response.BadRequest(c, "ids parameter is required")
		return
	}

	ids := strings.Split(filter.IDs, ",")
	tracks, err := h.query.TracksFor(ids, models.TimeRange{Start: filter.Start, End: filter.End})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tracks)
}

// GetVesselsAt handles GET /api/v1/vessels/at
func (h *VesselHandler) GetVesselsAt(c *gin.Context) {
	var filter models.AtTimeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	snap := h.query.VesselsAtTime(filter.T, time.Duration(filter.ToleranceMs)*time.Millisecond)
	response.Success(c, snap)
}

// SetTimeRange handles PUT /api/v1/timerange
func (h *VesselHandler) SetTimeRange(c *gin.Context) {
	var r models.TimeRange
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "Invalid time range payload")
		return
	}
	if err := h.query.SetTimeRange(r); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, r)
}
