package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

var errNotificationNotFound = apperror.NewNotFound("Notification not found")

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns the user's unread count and every notification, newest first.
func (s *NotificationService) List(ctx context.Context, userID int) (*NotificationFeed, error) {
	db := s.db.WithContext(ctx)

	var unread int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch notifications", err)
	}

	notifications := []models.Notification{}
	err = db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch notifications", err)
	}

	return &NotificationFeed{UnreadCount: unread, Notifications: notifications}, nil
}

// MarkRead flags the notification as read. Marking it again is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int) (*models.Notification, error) {
	if notificationID <= 0 {
		return nil, apperror.NewValidation("Invalid notification ID", nil)
	}

	var n models.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotificationNotFound
		}
		return nil, apperror.NewInternal("Failed to update notification", err)
	}

	if n.IsRead {
		return &n, nil
	}

	if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, apperror.NewInternal("Failed to update notification", err)
	}
	n.IsRead = true
	return &n, nil
}

// notify adds a notification for recipient inside tx. Self-notifications are dropped.
func notify(tx *gorm.DB, actorID, recipientID int, questionID *int, message string) error {
	if actorID == recipientID {
		return nil
	}
	n := models.Notification{
		UserID:     recipientID,
		QuestionID: questionID,
		Message:    message,
	}
	return tx.Create(&n).Error
}
