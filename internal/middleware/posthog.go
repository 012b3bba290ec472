package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils"
)

var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware captures successful API calls as analytics events.
// Requests are passed through untouched when the client is not configured.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.FullPath()] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= 400 {
			return
		}

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			userID = "anonymous"
		}

		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			eventName = "root"
		}

		properties := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		for _, param := range c.Params {
			properties["param_"+param.Key] = param.Value
		}

		posthogClient.Enqueue(userID, eventName, properties)
	}
}
