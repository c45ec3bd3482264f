package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/database"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

func counterColumn(t models.VoteType) string {
	if t == models.Downvote {
		return "downvotes"
	}
	return "upvotes"
}

func verb(t models.VoteType) string {
	if t == models.Downvote {
		return "downvoted"
	}
	return "upvoted"
}

// recordVote inserts the vote row and bumps the matching counter on target by
// one. Both writes must run in the same transaction so the counter always
// equals the number of vote rows.
func recordVote(tx *gorm.DB, vote any, target any, targetID int, t models.VoteType, duplicate *apperror.AppError) error {
	if err := tx.Create(vote).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return duplicate
		}
		return err
	}

	column := counterColumn(t)
	res := tx.Model(target).
		Where("id = ?", targetID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("vote target %d vanished", targetID)
	}
	return nil
}
