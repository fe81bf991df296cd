package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's QP credit balance in paise. The balance is never
// written independently of the ledger: every mutation appends a LedgerEntry
// and updates the balance in the same transaction, so
// balance == sum(entries.amount) == last entry's balance_after at all times.
type Wallet struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	BalancePaise int64          `gorm:"not null;default:0" json:"balance_paise"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
