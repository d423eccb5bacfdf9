package middleware

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
	"github.com/noah-isme/room-booking-api/pkg/response"
)

// RequireJSON rejects bodies that are not declared as application/json.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}
		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mediaType != gin.MIMEJSON {
			response.Error(c, appErrors.WithDetails(appErrors.ErrInvalidHeaderParam, []string{"Content-Type must be application/json"}))
			c.Abort()
			return
		}
		c.Next()
	}
}
