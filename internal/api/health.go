package api

import (
	"net/http"
	"time"

	"rcs-gateway/internal/config"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Config      *config.Config
	StoragePath string
}

func NewHealthHandler(cfg *config.Config, storagePath string) *HealthHandler {
	return &HealthHandler{Config: cfg, StoragePath: storagePath}
}

// Ping is the minimal liveness probe the VCR runtime polls.
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Health reports where the gateway is running and where it stores files.
func (h *HealthHandler) Health(c *gin.Context) {
	environment := "Local"
	if h.Config.IsVCR {
		environment = "VCR"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": environment,
		"storagePath": h.StoragePath,
	})
}
