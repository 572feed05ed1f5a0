package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opshub/internal/config"
)

// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}

// GET /api/db-check
func DBCheck(c *gin.Context) {
	if err := config.EnsureDB(); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}
