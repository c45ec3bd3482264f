package models

import "time"

type Answer struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Upvotes    int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes  int       `gorm:"not null;default:0" json:"downvotes"`
	UserID     int       `gorm:"not null;index" json:"userId"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	QuestionID int       `gorm:"not null;index" json:"questionId"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Comments   []Comment `gorm:"foreignKey:AnswerID" json:"comments,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type SubmitAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}

// AnswerVoteRequest accepts the id as a number or numeric string.
type AnswerVoteRequest struct {
	AnswerID FlexibleID `json:"answerid"`
}
