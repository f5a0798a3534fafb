package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the acting user's ID. The gateway in front of the
// service is responsible for authenticating the user and setting it.
const UserIDHeader = "X-Sharer-User-Id"

// UserIDRequired is a Gin middleware that requires a positive integer user ID in X-Sharer-User-Id.
func UserIDRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing " + UserIDHeader + " header",
			})
			return
		}

		id, err := strconv.ParseInt(header, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid " + UserIDHeader + " header",
			})
			return
		}

		SetUserID(c, id)
		c.Next()
	}
}
