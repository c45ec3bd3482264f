package models

import "time"

type Notification struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;index" json:"userId"`
	QuestionID *int      `gorm:"index" json:"questionId"`
	Message    string    `gorm:"not null" json:"message"`
	IsRead     bool      `gorm:"not null;default:false;index" json:"isRead"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

type MarkNotificationRequest struct {
	NotificationID FlexibleID `json:"notificationid"`
}
