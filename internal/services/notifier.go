package services

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/assignment"
	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

// NotificationSink persists notices as Notification rows and pushes them to
// connected clients over WebSocket and FCM. Delivery failures are logged,
// never propagated: notifying must not fail the operation that produced it.
type NotificationSink struct {
	db  *gorm.DB
	hub *Hub
}

// NewNotificationSink creates a notification sink
func NewNotificationSink(db *gorm.DB, hub *Hub) *NotificationSink {
	return &NotificationSink{db: db, hub: hub}
}

var _ assignment.Notifier = (*NotificationSink)(nil)

// Notify stores a notice and delivers it best-effort
func (s *NotificationSink) Notify(n assignment.Notice) {
	record := models.Notification{
		UserID:      n.RecipientID,
		Message:     n.Message,
		CreatedByID: n.OriginID,
	}

	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("Error persisting notification for user %d: %v", n.RecipientID, err)
		return
	}

	if s.hub != nil {
		s.hub.SendNotification(n.RecipientID, NotificationPush{
			NotificationID: record.ID,
			Message:        record.Message,
		})
	}

	s.pushToDevice(n.RecipientID, record.ID, n.Message)
}

func (s *NotificationSink) pushToDevice(userID, notificationID uint, message string) {
	if MessagingClient == nil {
		return
	}

	var user models.User
	if err := s.db.Select("fcm_token").First(&user, userID).Error; err != nil {
		log.Printf("Error loading FCM token for user %d: %v", userID, err)
		return
	}
	if user.FCMToken == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payload := PushPayload{
		Title: "Transport Update",
		Body:  message,
		Data: map[string]interface{}{
			"type":           "notification",
			"notificationId": notificationID,
		},
	}
	if err := SendPushToToken(ctx, user.FCMToken, payload); err != nil {
		log.Printf("Error sending push to user %d: %v", userID, err)
	}
}
