package handlers

import (
	"context"
	"net/http"
	"time"

	"ordesk/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness and Redis reachability.
func HealthHandler(c *gin.Context) {
	redisStatus := "ok"
	client := utils.GetSessionCacheClient()
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		redisStatus = "unreachable"
	}

	status := http.StatusOK
	if redisStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status": "up",
		"redis":  redisStatus,
	})
}
