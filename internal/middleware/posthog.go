package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/brokerdesk/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks successful
// authenticated API calls with PostHog.
func PosthogMiddleware(publisher analytics.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if publisher == nil || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		caller, ok := GetCallerFromContext(c)
		if !ok {
			return
		}

		// "/api/v1/transactions/:transactionID" -> "api_v1_transactions_:transactionID"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
			"role":        string(caller.Role),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		publisher.Enqueue(caller.AccountID, eventName, props)
	}
}
