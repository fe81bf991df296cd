package models

import (
	"time"

	"gorm.io/gorm"
)

type Payment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Purpose        string         `gorm:"size:30;not null;index" json:"purpose"` // DEPOSIT, EVENT_REGISTRATION, INVESTMENT, COMPANY_REGISTRATION
	AmountPaise    int64          `gorm:"not null" json:"amount_paise"`
	Provider       string         `gorm:"size:50;not null" json:"provider"`
	TxnID          string         `gorm:"size:64;uniqueIndex;not null" json:"txn_id"` // merchant transaction id sent to the gateway
	GatewayRef     string         `gorm:"size:128" json:"gateway_ref"`                // gateway-side payment id from the callback
	Status         string         `gorm:"size:20;not null;index" json:"status"`       // PENDING, COMPLETED, FAILED, EXPIRED
	IdempotencyKey *string        `gorm:"size:255;uniqueIndex" json:"-"` // NULL when the client sent none; empty strings would collide on the index
	Metadata       string         `gorm:"type:text" json:"metadata"` // JSON
	ExpiresAt      *time.Time     `gorm:"index" json:"expires_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
