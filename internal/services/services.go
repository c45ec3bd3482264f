// Package services holds the forum's data rules. Every method takes the
// request context and returns *apperror.AppError values for expected failures.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

var (
	errUserNotFound     = apperror.NewNotFound("User not found")
	errQuestionNotFound = apperror.NewNotFound("Question not found")
	errAnswerNotFound   = apperror.NewNotFound("Answer not found")
)

func findUser(ctx context.Context, db *gorm.DB, id int) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, apperror.NewInternal("Failed to load user", err)
	}
	return &user, nil
}

func findQuestion(ctx context.Context, db *gorm.DB, id int) (*models.Question, error) {
	if id <= 0 {
		return nil, errQuestionNotFound
	}
	var question models.Question
	if err := db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errQuestionNotFound
		}
		return nil, apperror.NewInternal("Failed to load question", err)
	}
	return &question, nil
}

func findAnswer(ctx context.Context, db *gorm.DB, id int) (*models.Answer, error) {
	var answer models.Answer
	if err := db.WithContext(ctx).Preload("Question").First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAnswerNotFound
		}
		return nil, apperror.NewInternal("Failed to load answer", err)
	}
	return &answer, nil
}

// wrapTx keeps AppErrors raised inside a transaction and wraps anything else.
func wrapTx(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternal(message, err)
}
