package content

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/validation"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

func (w *Writer) CreateAnswer(ctx context.Context, authorID, questionID int, body string) (*views.AnswerView, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperror.NewValidationError("answer body cannot be empty", nil)
	}

	var answerID int
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := parentExists(tx, "questions", questionID, "question"); err != nil {
			return err
		}
		a := models.Answer{Body: body, AuthorID: authorID, QuestionID: questionID}
		if err := tx.Omit(clause.Associations).Create(&a).Error; err != nil {
			return apperror.NewDatabaseError("failed to create answer", err)
		}
		answerID = a.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return w.mapper.GetAnswerFull(ctx, answerID, &authorID)
}

func (w *Writer) UpdateAnswer(ctx context.Context, userID, answerID int, body string) (*views.AnswerView, error) {
	if validation.Blank(body) {
		return nil, apperror.NewValidationError("answer body cannot be empty", nil)
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, "answers", "author_id", answerID, userID, "answer"); err != nil {
			return err
		}
		err := tx.Model(&models.Answer{ID: answerID}).Update("body", strings.TrimSpace(body)).Error
		if err != nil {
			return apperror.NewDatabaseError("failed to update answer", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return w.mapper.GetAnswerFull(ctx, answerID, &userID)
}

// DeleteAnswer removes the answer with its votes and comments.
func (w *Writer) DeleteAnswer(ctx context.Context, userID, answerID int) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, "answers", "author_id", answerID, userID, "answer"); err != nil {
			return err
		}
		for _, model := range []any{&models.AnswerComment{}, &models.AnswerVote{}} {
			if err := tx.Where("answer_id = ?", answerID).Delete(model).Error; err != nil {
				return apperror.NewDatabaseError("failed to delete answer", err)
			}
		}
		if err := tx.Delete(&models.Answer{}, answerID).Error; err != nil {
			return apperror.NewDatabaseError("failed to delete answer", err)
		}
		return nil
	})
}
