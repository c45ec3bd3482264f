package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

var errAdminsOnly = apperror.NewForbidden("Access denied. Admins only.")

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// DeleteQuestion removes a question and everything hanging off it: comments
// and votes on its answers, the answers, its own votes, notifications that
// reference it and its tag links. Children go first to satisfy foreign keys.
func (s *AdminService) DeleteQuestion(ctx context.Context, actorID, questionID int) error {
	actor, err := findUser(ctx, s.db, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin {
		return errAdminsOnly
	}
	if questionID <= 0 {
		return apperror.NewValidation("Missing questionid", nil)
	}

	question, err := findQuestion(ctx, s.db, questionID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answerIDs := func() *gorm.DB {
			return tx.Model(&models.Answer{}).Select("id").Where("question_id = ?", question.ID)
		}

		steps := []func() error{
			func() error { return tx.Where("answer_id IN (?)", answerIDs()).Delete(&models.Comment{}).Error },
			func() error { return tx.Where("answer_id IN (?)", answerIDs()).Delete(&models.AnswerVote{}).Error },
			func() error { return tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error },
			func() error { return tx.Where("question_id = ?", question.ID).Delete(&models.QuestionVote{}).Error },
			func() error { return tx.Where("question_id = ?", question.ID).Delete(&models.Notification{}).Error },
			func() error { return tx.Model(question).Association("Tags").Clear() },
			func() error { return tx.Delete(question).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapTx(err, "Failed to delete question")
}
