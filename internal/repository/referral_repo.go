package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// generateReferralCode returns an 8-character hex invite code.
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetOrCreateCode returns the user's invite code, creating one on first use.
func (r *ReferralRepository) GetOrCreateCode(userID uint) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := r.db.Where("user_id = ?", userID).First(&rc).Error; err == nil {
		return &rc, nil
	}
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, err
		}
		rc = models.ReferralCode{UserID: userID, Code: code, IsActive: true}
		if err := r.db.Create(&rc).Error; err == nil {
			return &rc, nil
		}
		// Collision: retry with a new code
	}
	return nil, fmt.Errorf("failed to generate a unique referral code after retries")
}

func (r *ReferralRepository) GetByCode(code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	err := r.db.Where("code = ? AND is_active = ?", code, true).First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *ReferralRepository) CreateReferral(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

func (r *ReferralRepository) GetByReferredUserID(userID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("referred_user_id = ?", userID).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// MarkKycDone flips the KYC flag on a still-pending referral.
func (r *ReferralRepository) MarkKycDone(referralID uint) error {
	return r.db.Model(&models.Referral{}).
		Where("id = ? AND status = ?", referralID, domain.ReferralStatusPending).
		Update("kyc_done", true).Error
}

// MarkDepositDone flips the first-deposit flag on a still-pending referral.
func (r *ReferralRepository) MarkDepositDone(referralID uint) error {
	return r.db.Model(&models.Referral{}).
		Where("id = ? AND status = ?", referralID, domain.ReferralStatusPending).
		Update("deposit_done", true).Error
}

// CreditIfPending transitions PENDING -> CREDITED inside tx, but only when
// both qualifying flags are already set on the row. Zero rows affected means
// the record is not yet ready, was already credited, or expired; the caller
// must not pay the bonus in that case.
func (r *ReferralRepository) CreditIfPending(tx *gorm.DB, referralID uint, rewardPaise int64) (bool, error) {
	now := time.Now()
	res := tx.Model(&models.Referral{}).
		Where("id = ?", referralID).
		Where(models.CreditGate()).
		Updates(map[string]interface{}{
			"status":       domain.ReferralStatusCredited,
			"reward_paise": rewardPaise,
			"credited_at":  &now,
		})
	return res.RowsAffected > 0, res.Error
}

// ExpireIfPending marks a single pending referral as EXPIRED; used by the
// lazy check when a qualifying event arrives past the window.
func (r *ReferralRepository) ExpireIfPending(referralID uint) (bool, error) {
	res := r.db.Model(&models.Referral{}).
		Where("id = ? AND status = ?", referralID, domain.ReferralStatusPending).
		Update("status", domain.ReferralStatusExpired)
	return res.RowsAffected > 0, res.Error
}

// ExpirePendingBefore marks pending referrals created before the cutoff as
// EXPIRED and returns how many were swept.
func (r *ReferralRepository) ExpirePendingBefore(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.Referral{}).
		Where("status = ? AND created_at < ?", domain.ReferralStatusPending, cutoff).
		Update("status", domain.ReferralStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *ReferralRepository) ListByReferrerID(referrerID uint, limit, offset int) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Where("referrer_id = ?", referrerID).
		Preload("ReferredUser").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
