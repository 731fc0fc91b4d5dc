package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/version"
)

// RegisterSystemEndpoints adds GET /health, which aggregates checkers and
// answers 503 when any is down, and GET /info with build information.
func (s *Server) RegisterSystemEndpoints(service string, checkers ...observability.HealthChecker) {
	started := time.Now()
	build := version.Get()

	s.engine.GET("/health", func(c *gin.Context) {
		health := observability.Check(c.Request.Context(), service, build.Short(), checkers...)
		status := http.StatusOK
		if health.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	})

	s.engine.GET("/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": service,
			"build":   build,
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	})
}
