// Package votes keeps the per-answer vote ledger: at most one vote per voter,
// toggled through Transition, with the answer's totals recomputed in the
// same transaction as every change.
package votes

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/database"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/validation"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

const statsQuery = `
SELECT
	COALESCE(SUM(CASE WHEN vote_type = 1 THEN 1 ELSE 0 END), 0)  AS upvotes,
	COALESCE(SUM(CASE WHEN vote_type = -1 THEN 1 ELSE 0 END), 0) AS downvotes,
	COALESCE(SUM(vote_type), 0)                                  AS score
FROM answer_votes
WHERE answer_id = ?`

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

type castInput struct {
	AnswerID int `validate:"gt=0"`
	VoterID  int `validate:"gt=0"`
	VoteType int `validate:"oneof=-1 1"`
}

// CastOrToggleVote records voterID's vote on answerID, cancelling it when the
// same type is cast twice and flipping it when the other type is cast.
func (l *Ledger) CastOrToggleVote(ctx context.Context, answerID, voterID, voteType int) (*views.VoteResult, error) {
	if err := validation.Struct(castInput{AnswerID: answerID, VoterID: voterID, VoteType: voteType}); err != nil {
		return nil, err
	}

	var result views.VoteResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes concurrent casts on the same answer.
		var answer models.Answer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", answerID).
			Take(&answer).Error
		if err != nil {
			if database.IsNotFound(err) {
				return apperror.NewNotFoundError("answer not found", err)
			}
			return apperror.NewDatabaseError("failed to load answer", err)
		}

		current := None
		var existing models.AnswerVote
		err = tx.Where("answer_id = ? AND user_id = ?", answerID, voterID).Take(&existing).Error
		switch {
		case err == nil:
			current = State(existing.VoteType)
		case !database.IsNotFound(err):
			return apperror.NewDatabaseError("failed to load vote", err)
		}

		cast := State(voteType)
		action, next := Transition(current, cast)

		switch action {
		case Insert:
			vote := models.AnswerVote{AnswerID: answerID, UserID: voterID, VoteType: int(cast)}
			if err := tx.Omit(clause.Associations).Create(&vote).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return apperror.NewValidationError("vote already recorded", err)
				}
				return apperror.NewDatabaseError("failed to record vote", err)
			}
		case Remove:
			if err := tx.Delete(&models.AnswerVote{}, existing.ID).Error; err != nil {
				return apperror.NewDatabaseError("failed to remove vote", err)
			}
		case Switch:
			if err := tx.Model(&existing).Update("vote_type", int(cast)).Error; err != nil {
				return apperror.NewDatabaseError("failed to change vote", err)
			}
		}

		stats, err := recompute(tx, answerID)
		if err != nil {
			return err
		}

		result = views.VoteResult{
			Message:  message(action, next),
			Votes:    stats,
			UserVote: int(next),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// recompute derives the totals from the vote rows and stores the score on the answer.
func recompute(tx *gorm.DB, answerID int) (views.VoteStats, error) {
	stats, err := readStats(tx, answerID)
	if err != nil {
		return stats, err
	}

	err = tx.Model(&models.Answer{}).
		Where("id = ?", answerID).
		UpdateColumn("vote_count", stats.Score).Error
	if err != nil {
		return stats, apperror.NewDatabaseError("failed to update answer score", err)
	}
	return stats, nil
}

func readStats(db *gorm.DB, answerID int) (views.VoteStats, error) {
	var stats views.VoteStats
	if err := db.Raw(statsQuery, answerID).Scan(&stats).Error; err != nil {
		return stats, apperror.NewDatabaseError("failed to compute vote totals", err)
	}
	return stats, nil
}

// Stats reads the current totals of an answer without changing anything.
func (l *Ledger) Stats(ctx context.Context, answerID int) (views.VoteStats, error) {
	db := l.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.Answer{}).Where("id = ?", answerID).Count(&n).Error; err != nil {
		return views.VoteStats{}, apperror.NewDatabaseError("failed to load answer", err)
	}
	if n == 0 {
		return views.VoteStats{}, apperror.NewNotFoundError("answer not found", nil)
	}
	return readStats(db, answerID)
}

// UserVote returns voterID's current vote on answerID, or None.
func (l *Ledger) UserVote(ctx context.Context, answerID, voterID int) (State, error) {
	var vote models.AnswerVote
	err := l.db.WithContext(ctx).
		Where("answer_id = ? AND user_id = ?", answerID, voterID).
		Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return None, nil
	}
	if err != nil {
		return None, apperror.NewDatabaseError("failed to load vote", err)
	}
	return State(vote.VoteType), nil
}
