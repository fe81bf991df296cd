package repository

import (
	"time"

	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var e models.Event
	if err := r.db.Preload("Organizer").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) ListUpcoming(limit, offset int) ([]models.Event, int64, error) {
	q := r.db.Model(&models.Event{}).Where("start_at > ?", time.Now())
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Event
	err := q.Order("start_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

// CountConfirmed is used for the capacity check on paid events.
func (r *EventRepository) CountConfirmed(eventID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.EventRegistration{}).
		Where("event_id = ? AND status = ?", eventID, domain.RegistrationStatusConfirmed).
		Count(&n).Error
	return n, err
}

// CreateRegistration relies on the unique (event_id, user_id) index to
// reject double registration.
func (r *EventRepository) CreateRegistration(reg *models.EventRegistration) error {
	return r.db.Create(reg).Error
}

func (r *EventRepository) GetRegistrationByPaymentID(paymentID uint) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	if err := r.db.Where("payment_id = ?", paymentID).First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *EventRepository) ConfirmIfPending(tx *gorm.DB, registrationID uint) (bool, error) {
	res := tx.Model(&models.EventRegistration{}).
		Where("id = ? AND status = ?", registrationID, domain.RegistrationStatusPending).
		Update("status", domain.RegistrationStatusConfirmed)
	return res.RowsAffected > 0, res.Error
}

func (r *EventRepository) FailRegistration(registrationID uint) error {
	return r.db.Model(&models.EventRegistration{}).
		Where("id = ? AND status = ?", registrationID, domain.RegistrationStatusPending).
		Update("status", domain.RegistrationStatusFailed).Error
}

func (r *EventRepository) ListRegistrations(eventID uint) ([]models.EventRegistration, error) {
	var list []models.EventRegistration
	err := r.db.Where("event_id = ?", eventID).
		Preload("User").
		Order("id ASC").
		Find(&list).Error
	return list, err
}
