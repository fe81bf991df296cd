package repository

import (
	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *models.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var p models.Project
	if err := r.db.Preload("Owner").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Update(p *models.Project) error {
	return r.db.Save(p).Error
}

func (r *ProjectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}

// List returns open projects, newest first, optionally filtered by category.
func (r *ProjectRepository) List(category string, limit, offset int) ([]models.Project, int64, error) {
	q := r.db.Model(&models.Project{}).Where("status = ?", domain.ProjectStatusOpen)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Project
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *ProjectRepository) ListByOwner(ownerID uint) ([]models.Project, error) {
	var list []models.Project
	err := r.db.Where("owner_id = ?", ownerID).Order("id DESC").Find(&list).Error
	return list, err
}

// IncrementFunding adds a settled amount to the cached aggregate inside tx.
// The caller guarantees exactly-once by gating on the investment's
// PENDING -> COMPLETED transition.
func (r *ProjectRepository) IncrementFunding(tx *gorm.DB, projectID uint, amountPaise int64) error {
	return tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		UpdateColumn("current_funding_paise", gorm.Expr("current_funding_paise + ?", amountPaise)).Error
}

// MarkFundedIfGoalReached flips OPEN -> FUNDED once the aggregate crosses
// the goal. Funding past the goal is allowed; the status flip is one-way.
func (r *ProjectRepository) MarkFundedIfGoalReached(tx *gorm.DB, projectID uint) (bool, error) {
	res := tx.Model(&models.Project{}).
		Where("id = ? AND status = ? AND current_funding_paise >= funding_goal_paise",
			projectID, domain.ProjectStatusOpen).
		Update("status", domain.ProjectStatusFunded)
	return res.RowsAffected > 0, res.Error
}
