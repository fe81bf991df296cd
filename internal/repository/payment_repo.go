package repository

import (
	"time"

	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByTxnID(txnID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("txn_id = ?", txnID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByIdempotencyKey(key string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("idempotency_key = ?", key).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CompleteIfPending transitions PENDING -> COMPLETED inside tx. The guard
// makes duplicate callbacks for the same txn id no-ops.
func (r *PaymentRepository) CompleteIfPending(tx *gorm.DB, paymentID uint, gatewayRef string) (bool, error) {
	now := time.Now()
	res := tx.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.PaymentStatusCompleted,
			"gateway_ref":  gatewayRef,
			"completed_at": &now,
		})
	return res.RowsAffected > 0, res.Error
}

// FailIfPending records a gateway failure callback.
func (r *PaymentRepository) FailIfPending(paymentID uint, gatewayRef string) (bool, error) {
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      domain.PaymentStatusFailed,
			"gateway_ref": gatewayRef,
		})
	return res.RowsAffected > 0, res.Error
}

// ListExpired returns PENDING payments whose expiry has passed; the sweep
// job moves them to EXPIRED.
func (r *PaymentRepository) ListExpired(now time.Time, limit int) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
		domain.PaymentStatusPending, now).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PaymentRepository) ExpireIfPending(paymentID uint) (bool, error) {
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, domain.PaymentStatusPending).
		Update("status", domain.PaymentStatusExpired)
	return res.RowsAffected > 0, res.Error
}

func (r *PaymentRepository) ListByUser(userID uint, limit, offset int) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
