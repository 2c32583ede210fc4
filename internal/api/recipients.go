package api

import (
	"net/http"

	"rcs-gateway/internal/dispatch"

	"github.com/gin-gonic/gin"
)

type RecipientHandler struct{}

func NewRecipientHandler() *RecipientHandler {
	return &RecipientHandler{}
}

// Parse extracts normalized phone numbers from an uploaded CSV. The list is
// returned to the client and never stored.
func (h *RecipientHandler) Parse(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	numbers, err := dispatch.ParseRecipients(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"phoneNumbers": numbers,
		"count":        len(numbers),
	})
}
