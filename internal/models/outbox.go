package models

import (
	"time"
)

const (
	OutboxStatusPending = "PENDING"
	OutboxStatusSent    = "SENT"
	OutboxStatusFailed  = "FAILED"
)

// OutboxMessage is written in the same transaction as the state change it
// announces; a background sender publishes it to Kafka afterwards.
type OutboxMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MessageKey string    `gorm:"size:64;not null" json:"message_key"`
	Topic      string    `gorm:"size:64;not null" json:"topic"`
	Payload    string    `gorm:"type:text;not null" json:"payload"`
	Status     string    `gorm:"size:20;index;not null;default:'PENDING'" json:"status"`
	RetryCount int       `gorm:"not null;default:0" json:"retry_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (OutboxMessage) TableName() string {
	return "outbox_messages"
}
