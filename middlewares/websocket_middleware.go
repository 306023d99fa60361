package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/utils"
)

// WebSocketAuthMiddleware: browser tidak bisa set header saat upgrade, jadi token lewat query.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.InfoLogger.Printf("WebSocket auth rejected from %s: %v", c.ClientIP(), err)
			c.AbortWithStatus(401)
			return
		}

		c.Set("role", claims.Role)
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}
