package models

import (
	"time"
)

// MessageLog is one outbound send attempt, recorded whether it succeeded or
// not. It backs the send-history view; nothing in the send path reads it
// back.
type MessageLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Recipient   string    `json:"recipient"`
	MessageType string    `json:"message_type"`
	Channel     string    `json:"channel"`
	Batch       bool      `json:"batch"`
	MessageUUID string    `json:"message_uuid"`
	Status      string    `json:"status"`
	Error       string    `json:"error"`
	CreatedAt   time.Time `json:"created_at"`
}
