package repository

import (
	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(c *models.Company) error {
	return r.db.Create(c).Error
}

func (r *CompanyRepository) GetByID(id uint) (*models.Company, error) {
	var c models.Company
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) GetByPaymentID(paymentID uint) (*models.Company, error) {
	var c models.Company
	if err := r.db.Where("payment_id = ?", paymentID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) Update(c *models.Company) error {
	return r.db.Save(c).Error
}

func (r *CompanyRepository) ListByOwner(ownerID uint) ([]models.Company, error) {
	var list []models.Company
	err := r.db.Where("owner_id = ?", ownerID).Order("id DESC").Find(&list).Error
	return list, err
}

// ActivateIfPendingPayment flips PENDING_PAYMENT -> ACTIVE inside tx once
// the registration fee settles.
func (r *CompanyRepository) ActivateIfPendingPayment(tx *gorm.DB, companyID uint) (bool, error) {
	res := tx.Model(&models.Company{}).
		Where("id = ? AND status = ?", companyID, domain.CompanyStatusPendingPayment).
		Update("status", domain.CompanyStatusActive)
	return res.RowsAffected > 0, res.Error
}
