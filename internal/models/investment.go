package models

import (
	"time"

	"gorm.io/gorm"
)

// Investment records an investor's commitment against a project. Type INVEST
// carries an expected equity stake; type SUPPORT is a donation and always
// has ExpectedStakes = 0. Express-interest rows have no payment attached and
// stay PENDING until the entrepreneur follows up out-of-band.
type Investment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ProjectID        uint           `gorm:"not null;index" json:"project_id"`
	InvestorID       uint           `gorm:"not null;index" json:"investor_id"`
	AmountPaise      int64          `gorm:"not null" json:"amount_paise"`
	ExpectedStakes   float64        `gorm:"not null;default:0" json:"expected_stakes"` // percent
	Type             string         `gorm:"size:20;not null;index" json:"type"`        // INVEST | SUPPORT
	Status           string         `gorm:"size:20;not null;index" json:"status"`      // PENDING, COMPLETED, FAILED
	PlatformFeePaise int64          `gorm:"not null;default:0" json:"platform_fee_paise"`
	PlatformFeePaid  bool           `gorm:"default:false" json:"platform_fee_paid"`
	InvestorPhone    string         `gorm:"size:20" json:"investor_phone"`
	Message          string         `gorm:"type:text" json:"message"`
	PaymentID        *uint          `gorm:"index" json:"payment_id"`
	CompletedAt      *time.Time     `json:"completed_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Project  Project  `gorm:"foreignKey:ProjectID" json:"-"`
	Investor User     `gorm:"foreignKey:InvestorID" json:"-"`
	Payment  *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

func (Investment) TableName() string {
	return "investments"
}
