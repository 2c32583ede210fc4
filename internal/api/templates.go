package api

import (
	"log"
	"net/http"
	"strconv"

	"rcs-gateway/internal/storage"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	Store *storage.TemplateStore
}

func NewTemplateHandler(store *storage.TemplateStore) *TemplateHandler {
	return &TemplateHandler{Store: store}
}

// GetTemplates lists all stored templates in insertion order.
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": h.Store.List()})
}

// SaveTemplates overwrites the whole template list.
func (h *TemplateHandler) SaveTemplates(c *gin.Context) {
	var req struct {
		Templates []storage.Template `json:"templates"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.Store.ReplaceAll(req.Templates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	log.Printf("Saved %d templates", len(req.Templates))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddTemplate appends one template and returns its index.
func (h *TemplateHandler) AddTemplate(c *gin.Context) {
	var req struct {
		Template storage.Template `json:"template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	index, err := h.Store.Add(req.Template)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	log.Printf("Added template: %s", req.Template.Name)
	c.JSON(http.StatusOK, gin.H{"success": true, "index": index})
}

// DeleteTemplate removes the template at the given list index. Later
// templates shift down one position.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid template index"})
		return
	}

	if err := h.Store.Delete(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
