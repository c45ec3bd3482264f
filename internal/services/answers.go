package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

var errAnswerVoted = apperror.NewBadRequest("You have already voted on this answer.")

type AnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// Submit adds an answer to the question and notifies the question owner.
func (s *AnswerService) Submit(ctx context.Context, userID, questionID int, content string) (*AnswerView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.NewValidation("Answer content is required", nil)
	}

	question, err := findQuestion(ctx, s.db, questionID)
	if err != nil {
		return nil, err
	}
	author, err := findUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	answer := models.Answer{
		Content:    content,
		QuestionID: question.ID,
		UserID:     author.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf(`%s answered your question: "%s"`, author.Username, question.Title)
		return notify(tx, author.ID, question.UserID, &question.ID, msg)
	})
	if err != nil {
		return nil, wrapTx(err, "Failed to submit answer")
	}

	answer.User = *author
	view := newAnswerView(&answer)
	return &view, nil
}

// Vote records one vote per user per answer and notifies the answer owner.
func (s *AnswerService) Vote(ctx context.Context, actorID, answerID int, t models.VoteType) (*AnswerView, error) {
	if answerID <= 0 {
		return nil, apperror.NewValidation("Missing answerid", nil)
	}

	answer, err := findAnswer(ctx, s.db, answerID)
	if err != nil {
		return nil, err
	}
	voter, err := findUser(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.AnswerVote{}).
			Where("user_id = ? AND answer_id = ?", voter.ID, answer.ID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return errAnswerVoted
		}

		vote := &models.AnswerVote{UserID: voter.ID, AnswerID: answer.ID, Type: t}
		if err := recordVote(tx, vote, &models.Answer{}, answer.ID, t, errAnswerVoted); err != nil {
			return err
		}

		title := ""
		if answer.Question != nil {
			title = answer.Question.Title
		}
		msg := fmt.Sprintf(`%s %s your answer to "%s"`, voter.Username, verb(t), title)
		return notify(tx, voter.ID, answer.UserID, &answer.QuestionID, msg)
	})
	if err != nil {
		return nil, wrapTx(err, "Failed to vote")
	}

	var updated models.Answer
	if err := s.db.WithContext(ctx).Preload("User").First(&updated, answer.ID).Error; err != nil {
		return nil, apperror.NewInternal("Failed to load answer", err)
	}
	view := newAnswerView(&updated)
	return &view, nil
}

// AddComment attaches a comment to an answer and notifies the answer owner.
func (s *AnswerService) AddComment(ctx context.Context, userID, answerID int, content string) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if answerID <= 0 || content == "" {
		return nil, apperror.NewValidation("Missing answerId or content", nil)
	}

	answer, err := findAnswer(ctx, s.db, answerID)
	if err != nil {
		return nil, err
	}
	author, err := findUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		Content:  content,
		UserID:   author.ID,
		AnswerID: answer.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return notify(tx, author.ID, answer.UserID, &answer.QuestionID, "Your answer has a new comment.")
	})
	if err != nil {
		return nil, wrapTx(err, "Failed to add comment")
	}

	comment.User = *author
	view := newCommentView(&comment)
	return &view, nil
}

// ListComments returns the comments of an answer, newest first.
func (s *AnswerService) ListComments(ctx context.Context, answerID int) ([]CommentView, error) {
	if answerID <= 0 {
		return nil, apperror.NewValidation("Missing answerId", nil)
	}
	if _, err := findAnswer(ctx, s.db, answerID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("answer_id = ?", answerID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch comments", err)
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, newCommentView(&comments[i]))
	}
	return views, nil
}
