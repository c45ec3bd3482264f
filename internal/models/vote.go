package models

import "time"

// VoteType is stored as text so rows stay readable in the database.
type VoteType string

const (
	Upvote   VoteType = "UPVOTE"
	Downvote VoteType = "DOWNVOTE"
)

// AnswerVote records a single user's vote on an answer.
type AnswerVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_answer_votes_user_answer" json:"userId"`
	AnswerID  int       `gorm:"not null;uniqueIndex:idx_answer_votes_user_answer;index" json:"answerId"`
	Type      VoteType  `gorm:"size:10;not null" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuestionVote records a single user's vote on a question.
type QuestionVote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;uniqueIndex:idx_question_votes_user_question" json:"userId"`
	QuestionID int       `gorm:"not null;uniqueIndex:idx_question_votes_user_question;index" json:"questionId"`
	Type       VoteType  `gorm:"size:10;not null" json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}
