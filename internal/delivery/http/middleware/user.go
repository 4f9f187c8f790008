package middleware

import (
	"net/http"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/dto"
	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the authenticated user id set by the gateway in front of the service.
const UserIDHeader = "X-User-ID"

const userIDKey = "user_id"

// RequireUser rejects requests without a user id header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Envelope{
				Success: false,
				Error:   &dto.ErrorBody{Message: "missing " + UserIDHeader + " header"},
			})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		return v.(string)
	}
	return c.GetHeader(UserIDHeader)
}
