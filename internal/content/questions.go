package content

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/validation"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

type QuestionInput struct {
	Title string   `validate:"required,max=500"`
	Body  string   `validate:"required"`
	Tags  []string `validate:"max=10"`
}

// QuestionPatch changes only what is set. Blank title or body are ignored;
// a non-nil Tags replaces the whole tag set, an empty one clears it.
type QuestionPatch struct {
	Title *string
	Body  *string
	Tags  *[]string
}

func (w *Writer) CreateQuestion(ctx context.Context, authorID int, in QuestionInput) (*views.QuestionView, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var questionID int
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := models.Question{Title: in.Title, Body: in.Body, AskedBy: authorID}
		if err := tx.Omit(clause.Associations).Create(&q).Error; err != nil {
			return apperror.NewDatabaseError("failed to create question", err)
		}
		questionID = q.ID

		if len(in.Tags) == 0 {
			return nil
		}
		tm := w.tags.WithTx(tx)
		ids, err := tm.FindOrCreateTags(ctx, in.Tags)
		if err != nil {
			return err
		}
		return tm.SetQuestionTags(ctx, q.ID, ids)
	})
	if err != nil {
		return nil, err
	}

	w.tags.Invalidate(ctx)
	return w.mapper.GetQuestionFull(ctx, questionID)
}

func (w *Writer) UpdateQuestion(ctx context.Context, userID, questionID int, patch QuestionPatch) (*views.QuestionView, error) {
	updates := map[string]any{}
	if patch.Title != nil && !validation.Blank(*patch.Title) {
		title := strings.TrimSpace(*patch.Title)
		if utf8.RuneCountInString(title) > 500 {
			return nil, apperror.NewValidationError("title must be at most 500 characters", nil)
		}
		updates["title"] = title
	}
	if patch.Body != nil && !validation.Blank(*patch.Body) {
		updates["body"] = strings.TrimSpace(*patch.Body)
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, "questions", "asked_by", questionID, userID, "question"); err != nil {
			return err
		}

		if len(updates) > 0 {
			err := tx.Model(&models.Question{ID: questionID}).Updates(updates).Error
			if err != nil {
				return apperror.NewDatabaseError("failed to update question", err)
			}
		}

		if patch.Tags == nil {
			return nil
		}
		tm := w.tags.WithTx(tx)
		ids, err := tm.FindOrCreateTags(ctx, *patch.Tags)
		if err != nil {
			return err
		}
		return tm.SetQuestionTags(ctx, questionID, ids)
	})
	if err != nil {
		return nil, err
	}

	if patch.Tags != nil {
		w.tags.Invalidate(ctx)
	}
	return w.mapper.GetQuestionFull(ctx, questionID)
}

// DeleteQuestion removes the question with its tag links, comments, answers
// and their votes and comments. Tags stay.
func (w *Writer) DeleteQuestion(ctx context.Context, userID, questionID int) error {
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, "questions", "asked_by", questionID, userID, "question"); err != nil {
			return err
		}

		var answerIDs []int
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", questionID).Pluck("id", &answerIDs).Error; err != nil {
			return apperror.NewDatabaseError("failed to load answers", err)
		}
		steps := []struct {
			model any
			query string
			arg   any
		}{
			{&models.AnswerComment{}, "answer_id IN ?", answerIDs},
			{&models.AnswerVote{}, "answer_id IN ?", answerIDs},
			{&models.Answer{}, "question_id = ?", questionID},
			{&models.QuestionComment{}, "question_id = ?", questionID},
			{&models.QuestionTag{}, "question_id = ?", questionID},
			{&models.Question{}, "id = ?", questionID},
		}
		for _, s := range steps {
			if err := tx.Where(s.query, s.arg).Delete(s.model).Error; err != nil {
				return apperror.NewDatabaseError("failed to delete question", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.tags.Invalidate(ctx)
	return nil
}
