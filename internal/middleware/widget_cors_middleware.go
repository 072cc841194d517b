package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WidgetCORS opens the public widget endpoints to any origin. The
// embed snippet runs on arbitrary customer sites, so these routes are
// deliberately permissive, unlike the dashboard API. The headers go on
// every response, including errors, and preflight requests get a 200
// without touching any handler.
func WidgetCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetWidgetCORSHeaders(c)

		if c.Request.Method == http.MethodOptions {
			c.JSON(http.StatusOK, gin.H{"message": "OK"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SetWidgetCORSHeaders writes the wildcard CORS headers. Also used by
// the router's NoMethod/NoRoute handlers, which run outside the public
// route group.
func SetWidgetCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
}
