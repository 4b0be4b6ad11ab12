package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling labels the profile samples of every API request with its route
// pattern, method and resource (the first path segment under basePath).
// Requests outside basePath are not labelled. Unmatched routes are skipped to
// keep label cardinality bounded.
func Profiling(basePath string) gin.HandlerFunc {
	prefix := strings.TrimSuffix(basePath, "/") + "/"

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || !strings.HasPrefix(route, prefix) {
			c.Next()
			return
		}

		resource, _, _ := strings.Cut(strings.TrimPrefix(route, prefix), "/")
		labels := pyroscope.Labels(
			"route", route,
			"method", c.Request.Method,
			"resource", resource,
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
