package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/internal/service"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
	"github.com/Clubs-Council-IIITH/events/pkg/response"
)

// ContextActorKey is the gin context key storing the authenticated actor.
const ContextActorKey = "currentActor"

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, authService)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextActorKey, claims.Actor())
		c.Next()
	}
}

// OptionalJWT attaches the actor when a valid token is present but never
// blocks the request; listing endpoints serve anonymous viewers too.
func OptionalJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, authService)
		if err == nil {
			c.Set(ContextActorKey, claims.Actor())
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, authService *service.AuthService) (*models.JWTClaims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return authService.ValidateToken(parts[1])
}

// ActorFromContext extracts the authenticated actor set by JWT middleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
