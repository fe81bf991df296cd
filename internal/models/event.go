package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrganizerID uint           `gorm:"not null;index" json:"organizer_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Venue       string         `gorm:"size:255" json:"venue"`
	StartAt     time.Time      `gorm:"not null;index" json:"start_at"`
	EndAt       time.Time      `json:"end_at"`
	PricePaise  int64          `gorm:"not null;default:0" json:"price_paise"` // 0 = free event
	Capacity    int            `gorm:"default:0" json:"capacity"`             // 0 = unlimited
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Organizer User `gorm:"foreignKey:OrganizerID" json:"-"`
}

func (Event) TableName() string { return "events" }

func (e *Event) IsFree() bool { return e.PricePaise <= 0 }

// EventRegistration stays PENDING until the gateway settles for paid
// events; free events confirm immediately.
type EventRegistration struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	EventID   uint           `gorm:"not null;index;uniqueIndex:idx_event_attendee" json:"event_id"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:idx_event_attendee" json:"user_id"`
	PaymentID *uint          `gorm:"index" json:"payment_id"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // PENDING, CONFIRMED, FAILED
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Event   Event    `gorm:"foreignKey:EventID" json:"-"`
	User    User     `gorm:"foreignKey:UserID" json:"-"`
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

func (EventRegistration) TableName() string { return "event_registrations" }
