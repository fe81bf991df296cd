package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"qipad/internal/domain"
	"qipad/internal/models"
	"qipad/internal/repository"
	"qipad/pkg/payment"
)

var (
	ErrEventFull         = errors.New("event is at capacity")
	ErrAlreadyRegistered = errors.New("already registered for this event")
)

// EventService manages networking events. Hosting costs QP; attending a
// paid event goes through the gateway and confirms on settlement, free
// events confirm immediately.
type EventService struct {
	events   *repository.EventRepository
	credits  *CreditService
	payments *PaymentService
}

func NewEventService(events *repository.EventRepository, credits *CreditService, payments *PaymentService) *EventService {
	return &EventService{events: events, credits: credits, payments: payments}
}

type CreateEventParams struct {
	OrganizerID uint
	Title       string
	Description string
	Venue       string
	StartAt     time.Time
	EndAt       time.Time
	PricePaise  int64
	Capacity    int
}

func (s *EventService) Create(ctx context.Context, p CreateEventParams) (*models.Event, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if p.StartAt.Before(time.Now()) {
		return nil, fmt.Errorf("event must start in the future")
	}
	entry, err := s.credits.Deduct(ctx, p.OrganizerID, domain.ActionEvent, "event", "")
	if err != nil {
		return nil, err
	}
	event := &models.Event{
		OrganizerID: p.OrganizerID,
		Title:       p.Title,
		Description: p.Description,
		Venue:       p.Venue,
		StartAt:     p.StartAt,
		EndAt:       p.EndAt,
		PricePaise:  p.PricePaise,
		Capacity:    p.Capacity,
	}
	if err := s.events.Create(event); err != nil {
		if _, rerr := s.credits.Refund(ctx, p.OrganizerID, domain.ActionEvent, "event", entry.EntryNo, "event creation failed"); rerr != nil {
			log.Printf("[event] refund after failed create for user %d: %v", p.OrganizerID, rerr)
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetByID(id uint) (*models.Event, error) {
	return s.events.GetByID(id)
}

func (s *EventService) ListUpcoming(limit, offset int) ([]models.Event, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.events.ListUpcoming(limit, offset)
}

// Register books a seat. Free events confirm on the spot; paid events
// return a checkout session and confirm when the payment settles.
func (s *EventService) Register(ctx context.Context, eventID, userID uint) (*models.EventRegistration, *payment.CheckoutSession, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, nil, err
	}
	if event.Capacity > 0 {
		confirmed, err := s.events.CountConfirmed(eventID)
		if err != nil {
			return nil, nil, err
		}
		if confirmed >= int64(event.Capacity) {
			return nil, nil, ErrEventFull
		}
	}

	if event.IsFree() {
		reg := &models.EventRegistration{
			EventID: eventID,
			UserID:  userID,
			Status:  domain.RegistrationStatusConfirmed,
		}
		if err := s.events.CreateRegistration(reg); err != nil {
			return nil, nil, ErrAlreadyRegistered
		}
		return reg, nil, nil
	}

	pay, session, err := s.payments.Initiate(ctx, InitiateParams{
		UserID:      userID,
		Purpose:     domain.PaymentPurposeEventRegistration,
		AmountPaise: event.PricePaise,
		Metadata:    fmt.Sprintf(`{"event_id":%d}`, eventID),
	})
	if err != nil {
		return nil, nil, err
	}
	reg := &models.EventRegistration{
		EventID:   eventID,
		UserID:    userID,
		PaymentID: &pay.ID,
		Status:    domain.RegistrationStatusPending,
	}
	if err := s.events.CreateRegistration(reg); err != nil {
		return nil, nil, ErrAlreadyRegistered
	}
	return reg, session, nil
}

func (s *EventService) ListRegistrations(eventID, requesterID uint) ([]models.EventRegistration, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != requesterID {
		return nil, fmt.Errorf("only the organizer can view registrations")
	}
	return s.events.ListRegistrations(eventID)
}
