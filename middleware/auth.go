package middleware

import (
	"net/http"
	"strings"

	"ordesk/utils"

	"github.com/gin-gonic/gin"
)

// OperatorAuthMiddleware validates the dashboard operator's bearer token and
// stores the operator id on the context.
func OperatorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		operatorID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || operatorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid operator token"})
			return
		}

		c.Set("operatorID", operatorID)
		c.Next()
	}
}
