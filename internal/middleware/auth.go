package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the integer id of the authenticated caller,
// established by the upstream gateway. A missing or non-integer value
// is a client error, not a validation error.
const UserIDHeader = "User-ID"

// AuthMiddleware extracts the trusted caller identity from the request
// header and stores it in the gin context for handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "User ID not found in request header",
			})
			c.Abort()
			return
		}

		userID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid User ID format in request header",
			})
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}

// GetUserID returns the trusted caller id set by AuthMiddleware.
func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		return 0, false
	}
	id, ok := userID.(int)
	return id, ok
}
