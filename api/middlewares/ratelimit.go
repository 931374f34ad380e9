package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chroma-ai/chroma-web/api/models"
	"github.com/chroma-ai/chroma-web/tool"
)

// MsgTooManyRequests is shown when a client is throttled.
const MsgTooManyRequests = "Too many requests. Please slow down."

// RateLimit throttles a route per client. Throttled requests go to reject, which must
// write the 429 response; a nil reject answers with a JSON error.
func RateLimit(l *models.Limiters, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientID(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !l.Allow(key + " " + c.FullPath()) {
			tool.DefaultLogger.Warnf("[RateLimit] %s exceeded on %s", key, c.FullPath())
			if reject == nil {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, tool.FastReturnError(MsgTooManyRequests))
				return
			}
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
