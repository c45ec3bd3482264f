package services

import (
	"time"

	"github.com/stackit-dev/stackit/backend/internal/models"
)

type QuestionView struct {
	ID        int                `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Upvotes   int                `json:"upvotes"`
	Downvotes int                `json:"downvotes"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	AskedBy   models.UserSummary `json:"askedBy"`
	Tags      []models.Tag       `json:"tags"`
}

type AnswerView struct {
	ID         int                `json:"id"`
	QuestionID int                `json:"questionId"`
	Content    string             `json:"content"`
	Upvotes    int                `json:"upvotes"`
	Downvotes  int                `json:"downvotes"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
	AnsweredBy models.UserSummary `json:"answeredBy"`
	Comments   []CommentView      `json:"comments"`
}

type CommentView struct {
	ID          int                `json:"id"`
	AnswerID    int                `json:"answerId"`
	Content     string             `json:"content"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	CommentedBy models.UserSummary `json:"commentedBy"`
}

// QuestionDetail is a question with its full answer and comment tree.
type QuestionDetail struct {
	Question QuestionView `json:"question"`
	Answers  []AnswerView `json:"answers"`
}

type AnswerBrief struct {
	ID        int                `json:"id"`
	Content   string             `json:"content"`
	Upvotes   int                `json:"upvotes"`
	Downvotes int                `json:"downvotes"`
	CreatedAt time.Time          `json:"createdAt"`
	User      models.UserSummary `json:"user"`
}

type QuestionListItem struct {
	ID           int                `json:"id"`
	Title        string             `json:"title"`
	Content      string             `json:"content"`
	User         models.UserSummary `json:"user"`
	Tags         []models.Tag       `json:"tags"`
	Answers      []AnswerBrief      `json:"answers"`
	AnswerCount  int                `json:"answerCount"`
	IsUnanswered bool               `json:"isUnanswered"`
	Upvotes      int                `json:"upvotes"`
	Downvotes    int                `json:"downvotes"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type QuestionList struct {
	TotalQuestions  int                `json:"totalQuestions"`
	TotalUnanswered int                `json:"totalUnanswered"`
	Questions       []QuestionListItem `json:"questions"`
}

type NotificationFeed struct {
	UnreadCount   int64                 `json:"unreadCount"`
	Notifications []models.Notification `json:"notifications"`
}

func newQuestionView(q *models.Question) QuestionView {
	tags := q.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return QuestionView{
		ID:        q.ID,
		Title:     q.Title,
		Content:   q.Content,
		Upvotes:   q.Upvotes,
		Downvotes: q.Downvotes,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
		AskedBy:   q.User.Summary(),
		Tags:      tags,
	}
}

func newAnswerView(a *models.Answer) AnswerView {
	comments := make([]CommentView, 0, len(a.Comments))
	for i := range a.Comments {
		comments = append(comments, newCommentView(&a.Comments[i]))
	}
	return AnswerView{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Content:    a.Content,
		Upvotes:    a.Upvotes,
		Downvotes:  a.Downvotes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		AnsweredBy: a.User.Summary(),
		Comments:   comments,
	}
}

func newCommentView(c *models.Comment) CommentView {
	return CommentView{
		ID:          c.ID,
		AnswerID:    c.AnswerID,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		CommentedBy: c.User.Summary(),
	}
}

func newQuestionListItem(q *models.Question) QuestionListItem {
	answers := make([]AnswerBrief, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, AnswerBrief{
			ID:        a.ID,
			Content:   a.Content,
			Upvotes:   a.Upvotes,
			Downvotes: a.Downvotes,
			CreatedAt: a.CreatedAt,
			User:      a.User.Summary(),
		})
	}
	tags := q.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return QuestionListItem{
		ID:           q.ID,
		Title:        q.Title,
		Content:      q.Content,
		User:         q.User.Summary(),
		Tags:         tags,
		Answers:      answers,
		AnswerCount:  len(answers),
		IsUnanswered: len(answers) == 0,
		Upvotes:      q.Upvotes,
		Downvotes:    q.Downvotes,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}
