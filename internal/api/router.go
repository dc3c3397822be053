package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborwatch/marinetrack/internal/handler"
	"github.com/harborwatch/marinetrack/internal/middleware"
	"github.com/harborwatch/marinetrack/internal/service"
)

// SetupRouter wires the HTTP surface over the ingest and query services
func SetupRouter(ingest *service.IngestService, query *service.QueryService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Marinetrack API is running",
		})
	})

	vesselHandler := handler.NewVesselHandler(ingest, query)
	encounterHandler := handler.NewEncounterHandler(query)
	activityHandler := handler.NewActivityHandler(query)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(600, time.Minute))
	{
		vessels := api.Group("/vessels")
		{
			vessels.GET("", vesselHandler.GetVessels)
			vessels.GET("/at", vesselHandler.GetVesselsAt)
			vessels.GET("/tracks", vesselHandler.GetTracks)
			vessels.GET("/:id/track", vesselHandler.GetTrack)
			vessels.POST("/:id/samples", vesselHandler.AppendSample)
			vessels.POST("/:id/events", vesselHandler.AppendEvent)
		}

		api.GET("/encounters", encounterHandler.GetEncounters)

		activity := api.Group("/activity")
		{
			activity.GET("/timeline", activityHandler.GetTimeline)
			activity.GET("/stats", activityHandler.GetStats)
			activity.GET("/heatmap", activityHandler.GetHeatmap)
		}

		api.PUT("/timerange", vesselHandler.SetTimeRange)
	}

	return r
}
