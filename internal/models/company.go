package models

import (
	"time"

	"gorm.io/gorm"
)

// Company stays PENDING_PAYMENT until the registration fee settles.
type Company struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Name        string         `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CIN         string         `gorm:"size:32" json:"cin"` // corporate identification number, if already incorporated
	Sector      string         `gorm:"size:64" json:"sector"`
	Website     string         `gorm:"size:255" json:"website"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"size:20;not null;index;default:'PENDING_PAYMENT'" json:"status"` // PENDING_PAYMENT | ACTIVE
	PaymentID   *uint          `gorm:"index" json:"payment_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Owner   User     `gorm:"foreignKey:OwnerID" json:"-"`
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

func (Company) TableName() string { return "companies" }
