package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"rcs-gateway/internal/config"
	"rcs-gateway/internal/database"
	"rcs-gateway/internal/dispatch"
	"rcs-gateway/internal/models"
	"rcs-gateway/internal/rcs"
	"rcs-gateway/internal/vonage"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	Client     *vonage.Client
	Config     *config.Config
	Dispatcher *dispatch.Dispatcher
}

func NewMessageHandler(client *vonage.Client, cfg *config.Config) *MessageHandler {
	return &MessageHandler{Client: client, Config: cfg, Dispatcher: dispatch.New()}
}

type sendMessageRequest struct {
	Payload    *rcs.Payload `json:"payload"`
	AppID      string       `json:"appId"`
	PrivateKey string       `json:"privateKey"`
}

type sendBatchRequest struct {
	BasePayload  *rcs.Payload `json:"basePayload"`
	PhoneNumbers []string     `json:"phoneNumbers"`
	AppID        string       `json:"appId"`
	PrivateKey   string       `json:"privateKey"`
}

// credentials merges request-supplied signing credentials with the
// environment fallbacks. A complete pair from the request wins over one
// configured at startup.
func (h *MessageHandler) credentials(appID, privateKey string) vonage.Credentials {
	creds := vonage.Credentials{
		ApplicationID: h.Config.ApplicationID,
		PrivateKey:    h.Config.PrivateKey,
		APIKey:        h.Config.APIKey,
		APISecret:     h.Config.APISecret,
	}
	if appID != "" && privateKey != "" {
		creds.ApplicationID = appID
		creds.PrivateKey = privateKey
	}
	return creds
}

// SendMessage posts one payload to the Messages API.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.Payload == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required field: payload"})
		return
	}

	authHeader, err := vonage.SelectAuth(h.credentials(req.AppID, req.PrivateKey))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, vonage.ErrNoCredentials) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp, err := h.Client.Send(req.Payload, authHeader)
	if err != nil {
		h.logSend(req.Payload, "", false, err)
		var apiErr *vonage.APIError
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.StatusCode, gin.H{
				"success": false,
				"error":   apiErr.Message,
				"details": json.RawMessage(apiErr.Body),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.logSend(req.Payload, resp.MessageUUID, false, nil)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message_uuid": resp.MessageUUID,
		"workflow_id":  resp.WorkflowID,
	})
}

// SendBatch fans the base payload out to every recipient sequentially and
// reports per-recipient outcomes.
func (h *MessageHandler) SendBatch(c *gin.Context) {
	var req sendBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.BasePayload == nil || req.PhoneNumbers == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	authHeader, err := vonage.SelectAuth(h.credentials(req.AppID, req.PrivateKey))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, vonage.ErrNoCredentials) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	results, err := h.Dispatcher.Dispatch(*req.BasePayload, req.PhoneNumbers, func(p *rcs.Payload) (string, error) {
		resp, err := h.Client.Send(p, authHeader)
		if err != nil {
			h.logSend(p, "", true, err)
			return "", err
		}
		h.logSend(p, resp.MessageUUID, true, nil)
		return resp.MessageUUID, nil
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// logSend records the attempt in the send history. Fire and forget: history
// must never slow down or fail a send.
func (h *MessageHandler) logSend(p *rcs.Payload, messageUUID string, batch bool, sendErr error) {
	if database.GormDB == nil {
		return
	}
	entry := models.MessageLog{
		Recipient:   p.To,
		MessageType: p.MessageType,
		Channel:     p.Channel,
		Batch:       batch,
		MessageUUID: messageUUID,
		Status:      "sent",
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.Error = sendErr.Error()
	}
	go func() {
		if err := database.GormDB.Create(&entry).Error; err != nil {
			log.Printf("Failed to record send for %s: %v", entry.Recipient, err)
		}
	}()
}
