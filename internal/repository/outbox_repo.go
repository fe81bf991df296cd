package repository

import (
	"qipad/internal/models"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Create writes the message inside the caller's transaction so the event
// and the state change it announces commit or roll back together.
func (r *OutboxRepository) Create(tx *gorm.DB, msg *models.OutboxMessage) error {
	return tx.Create(msg).Error
}

func (r *OutboxRepository) ListPending(limit int) ([]models.OutboxMessage, error) {
	var list []models.OutboxMessage
	err := r.db.Where("status = ?", models.OutboxStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *OutboxRepository) MarkSent(id uint) error {
	return r.db.Model(&models.OutboxMessage{}).
		Where("id = ?", id).
		Update("status", models.OutboxStatusSent).Error
}

func (r *OutboxRepository) IncrementRetry(id uint) error {
	return r.db.Model(&models.OutboxMessage{}).
		Where("id = ?", id).
		UpdateColumn("retry_count", gorm.Expr("retry_count + 1")).Error
}

// MarkFailed parks a message that exhausted its retries; operators requeue
// by resetting the status.
func (r *OutboxRepository) MarkFailed(id uint) error {
	return r.db.Model(&models.OutboxMessage{}).
		Where("id = ?", id).
		Update("status", models.OutboxStatusFailed).Error
}
