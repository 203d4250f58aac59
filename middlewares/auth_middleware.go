package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/utils"
)

// AuthTokenFromRequest pulls the session token from the Authorization
// header or, failing that, the auth_token cookie the login handler sets.
func AuthTokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware gates the admin group. Any missing, invalid or revoked
// token yields 401 before the handler runs.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := AuthTokenFromRequest(c)
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization required"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil || claims == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// WebSocketAuthMiddleware authenticates the live feed upgrade. Browsers
// cannot set headers on websocket requests, so the token also comes in
// as a query parameter.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := AuthTokenFromRequest(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// the feed is a long-lived connection, so beyond token validity
		// make sure the admin account itself still exists
		if db := utils.GetDB(); db != nil {
			var count int64
			db.Model(&models.Admin{}).Where("id = ?", claims.AdminID).Count(&count)
			if count == 0 {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)

		c.Next()
	}
}
