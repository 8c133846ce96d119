package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Clubs-Council-IIITH/events/internal/middleware"
	"github.com/Clubs-Council-IIITH/events/internal/models"
)

// actorFromContext returns the authenticated actor, or nil for anonymous
// requests on optional-auth routes.
func actorFromContext(c *gin.Context) *models.Actor {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return nil
	}
	return &actor
}
