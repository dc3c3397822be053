package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/harborwatch/marinetrack/internal/config"
	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/store"
	"github.com/harborwatch/marinetrack/pkg/response"
)

// respondError maps the core error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrUnknownEntity):
		response.NotFound(c, err.Error())
	case errors.Is(err, store.ErrOutOfOrderSample):
		response.Conflict(c, err.Error())
	case errors.Is(err, models.ErrInvalidRange), errors.Is(err, config.ErrConfiguration):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
