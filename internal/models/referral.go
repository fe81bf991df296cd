package models

import (
	"time"

	"qipad/internal/domain"

	"gorm.io/gorm"
)

// ReferralCode is a unique invite code belonging to a user.
// Each user has at most one referral code.
type ReferralCode struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Code      string         `gorm:"uniqueIndex;size:20;not null" json:"code"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ReferralCode) TableName() string { return "referral_codes" }

// Referral tracks a referrer -> referred-user link. A user can only be
// referred once. The referrer bonus is paid only after the referred user
// both completes KYC and makes a first deposit - a single event is not
// enough; this gates out reward farming via throwaway signups.
type Referral struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ReferrerID     uint           `gorm:"not null;index" json:"referrer_id"`
	ReferredUserID uint           `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	Code           string         `gorm:"size:20;not null" json:"code"`
	Status         string         `gorm:"size:20;not null;index;default:'PENDING'" json:"status"` // PENDING, CREDITED, EXPIRED
	KycDone        bool           `gorm:"default:false" json:"kyc_done"`
	DepositDone    bool           `gorm:"default:false" json:"deposit_done"`
	RewardPaise    int64          `gorm:"not null;default:0" json:"reward_paise"`
	CreditedAt     *time.Time     `json:"credited_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Referrer     User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredUser User `gorm:"foreignKey:ReferredUserID" json:"referred_user,omitempty"`
}

func (Referral) TableName() string { return "referrals" }

// ReadyToCredit reports whether both qualifying events have been observed
// on a still-pending record.
func (r *Referral) ReadyToCredit() bool {
	return r.Status == domain.ReferralStatusPending && r.KycDone && r.DepositDone
}

// CreditGate is the row filter for the PENDING -> CREDITED transition. Both
// qualifying flags are checked in the database, not from an in-memory read:
// two concurrent qualifying events each see the other's flag as stale-false,
// so deciding from the read would let both skip the credit.
func CreditGate() map[string]interface{} {
	return map[string]interface{}{
		"status":       domain.ReferralStatusPending,
		"kyc_done":     true,
		"deposit_done": true,
	}
}

// ExpiredBy reports whether a pending record has outlived the expiry window.
func (r *Referral) ExpiredBy(now time.Time, expiryDays int) bool {
	if r.Status != domain.ReferralStatusPending {
		return false
	}
	return now.After(r.CreatedAt.AddDate(0, 0, expiryDays))
}
