package models

import "time"

type Question struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int       `gorm:"not null;default:0" json:"downvotes"`
	UserID    int       `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Tags      []Tag     `gorm:"many2many:question_tags" json:"tags"`
	Answers   []Answer  `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Tag struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

type CreateQuestionRequest struct {
	Title   string   `json:"title" binding:"required,min=10,max=100"`
	Content string   `json:"content" binding:"required,min=20,max=5000"`
	Tags    []string `json:"tags" binding:"required,min=1,max=5,dive,required"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}
