package models

import "time"

type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    int       `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	AnswerID  int       `gorm:"not null;index" json:"answerId"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateCommentRequest struct {
	AnswerID FlexibleID `json:"answerId"`
	Content  string     `json:"content"`
}

type ListCommentsRequest struct {
	AnswerID FlexibleID `json:"answerId"`
}
