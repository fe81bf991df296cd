package repository

import (
	"time"

	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/gorm"
)

type InvestmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Create(inv *models.Investment) error {
	return r.db.Create(inv).Error
}

func (r *InvestmentRepository) GetByID(id uint) (*models.Investment, error) {
	var inv models.Investment
	if err := r.db.First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvestmentRepository) GetByPaymentID(paymentID uint) (*models.Investment, error) {
	var inv models.Investment
	if err := r.db.Where("payment_id = ?", paymentID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// CompleteIfPending transitions PENDING -> COMPLETED inside tx. This is the
// exactly-once gate for the funding aggregate: the caller increments the
// project only when the transition actually happened.
func (r *InvestmentRepository) CompleteIfPending(tx *gorm.DB, investmentID uint) (bool, error) {
	now := time.Now()
	res := tx.Model(&models.Investment{}).
		Where("id = ? AND status = ?", investmentID, domain.InvestmentStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.InvestmentStatusCompleted,
			"completed_at": &now,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *InvestmentRepository) FailIfPending(investmentID uint) (bool, error) {
	res := r.db.Model(&models.Investment{}).
		Where("id = ? AND status = ?", investmentID, domain.InvestmentStatusPending).
		Update("status", domain.InvestmentStatusFailed)
	return res.RowsAffected > 0, res.Error
}

func (r *InvestmentRepository) ListByProject(projectID uint, limit, offset int) ([]models.Investment, error) {
	var list []models.Investment
	err := r.db.Where("project_id = ?", projectID).
		Preload("Investor").
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *InvestmentRepository) ListByInvestor(investorID uint, limit, offset int) ([]models.Investment, error) {
	var list []models.Investment
	err := r.db.Where("investor_id = ?", investorID).
		Preload("Project").
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
