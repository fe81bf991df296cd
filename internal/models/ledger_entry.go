package models

import (
	"time"

	"gorm.io/gorm"
)

// LedgerEntry is one row of the append-only wallet ledger.
// Entries are never updated or deleted once written; BalanceAfterPaise of
// entry n equals BalanceAfterPaise of entry n-1 plus AmountPaise.
type LedgerEntry struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	EntryNo           string         `gorm:"size:64;uniqueIndex;not null" json:"entry_no"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	Type              string         `gorm:"size:30;not null;index" json:"type"` // DEPOSIT, EARN, REFERRAL_BONUS, SPEND, REFUND
	AmountPaise       int64          `gorm:"not null" json:"amount_paise"`       // positive = credit, negative = debit
	BalanceAfterPaise int64          `gorm:"not null" json:"balance_after_paise"`
	Description       string         `gorm:"size:255" json:"description"`
	ReferenceType     string         `gorm:"size:30;index" json:"reference_type"` // e.g. payment, project, job, referral
	ReferenceID       string         `gorm:"size:64;index" json:"reference_id"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
