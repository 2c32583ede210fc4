package api

import (
	"net/http"

	"rcs-gateway/internal/database"
	"rcs-gateway/internal/models"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct{}

func NewHistoryHandler() *HistoryHandler {
	return &HistoryHandler{}
}

// GetMessages returns the most recent send attempts, newest first.
func (h *HistoryHandler) GetMessages(c *gin.Context) {
	var logs []models.MessageLog
	if err := database.GormDB.Order("created_at desc").Limit(200).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
