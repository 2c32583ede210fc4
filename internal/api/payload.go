package api

import (
	"net/http"

	"rcs-gateway/internal/rcs"

	"github.com/gin-gonic/gin"
)

type PayloadHandler struct{}

func NewPayloadHandler() *PayloadHandler {
	return &PayloadHandler{}
}

// Build turns builder state into the wire payload, for previewing and for
// clients that keep only raw form values. Carousel card count is checked
// here, at the interaction boundary, not inside the builder.
func (h *PayloadHandler) Build(c *gin.Context) {
	var in rcs.BuildInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if in.MessageType == "carousel" && (len(in.Cards) < 2 || len(in.Cards) > 10) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A carousel requires between 2 and 10 cards"})
		return
	}

	payload, err := rcs.BuildPayload(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payload)
}
