package handler

import (
	"context"
	"net/http"
	"time"

	"growfi-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthCheck handles GET /health. Each dependency gets its own deadline so
// one hung backend cannot stall the probe; any failure reports 503 degraded.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps := make(map[string]dependencyStatus, len(checkers))
		healthy := true

		for _, checker := range checkers {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			err := checker.Ping(ctx)
			cancel()

			if err != nil {
				healthy = false
				deps[checker.Name()] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				continue
			}
			deps[checker.Name()] = dependencyStatus{Status: "healthy"}
		}

		status, code := "healthy", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
