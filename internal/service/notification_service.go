package service

import (
	"context"
	"log"

	"qipad/internal/models"
	"qipad/internal/repository"

	"firebase.google.com/go/v4/messaging"
)

// Notifier decouples event sources from notification delivery.
type Notifier interface {
	Notify(ctx context.Context, userID uint, ntype, title, body, data string)
}

// NotificationService persists in-app notifications and mirrors them to FCM
// when the user has a registered device token. Push failures are logged and
// swallowed; the in-app row is the durable record.
type NotificationService struct {
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	fcm           *messaging.Client // nil when Firebase is not configured
}

func NewNotificationService(notifications *repository.NotificationRepository, users *repository.UserRepository, fcm *messaging.Client) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, fcm: fcm}
}

func (s *NotificationService) Notify(ctx context.Context, userID uint, ntype, title, body, data string) {
	n := &models.Notification{
		UserID: userID,
		Type:   ntype,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	if err := s.notifications.Create(n); err != nil {
		log.Printf("[notify] persist for user %d: %v", userID, err)
		return
	}
	s.push(ctx, userID, title, body)
}

func (s *NotificationService) push(ctx context.Context, userID uint, title, body string) {
	if s.fcm == nil {
		return
	}
	user, err := s.users.GetByID(userID)
	if err != nil || user.FCMToken == "" {
		return
	}
	_, err = s.fcm.Send(ctx, &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		log.Printf("[notify] fcm send to user %d: %v", userID, err)
	}
}

func (s *NotificationService) List(userID uint, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notifications.ListByUser(userID, limit, offset)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.notifications.CountUnread(userID)
}

func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	return s.notifications.MarkRead(userID, notificationID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notifications.MarkAllRead(userID)
}
