package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/models"
	"github.com/teknetau/gestion_backend/utils"
)

// AuthMiddleware validates the Bearer token and loads the caller's identity
// into the request context. Role state is request-scoped only; nothing about
// the caller survives the request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validated, err := utils.JwtValidate(auth)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		// Logout revokes tokens through the cache; enforce only when Redis is up.
		username, found, err := config.GetRedisValue("Token:" + auth)
		if err == nil && config.GetRedisDB() != nil && !found {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = utils.SetTokenInContext(ctx, auth)
		ctx = utils.SetUserIdInContext(ctx, claim.ID)
		ctx = utils.SetUserRoleInContext(ctx, claim.Role)
		if username != "" {
			ctx = utils.SetUsernameInContext(ctx, username)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := utils.GetUserRoleFromContext(c.Request.Context())
		if !ok || role != string(models.UserRoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
