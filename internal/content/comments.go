package content

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/comments"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/validation"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

// CommentInput names the parent by exactly one of QuestionID and AnswerID.
type CommentInput struct {
	QuestionID *int
	AnswerID   *int
	Body       string
}

func commentModel(kind comments.Kind) any {
	if kind == comments.OnAnswer {
		return &models.AnswerComment{}
	}
	return &models.QuestionComment{}
}

func (w *Writer) CreateComment(ctx context.Context, authorID int, in CommentInput) (*views.CommentView, error) {
	target, err := comments.NewTarget(in.QuestionID, in.AnswerID)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, apperror.NewValidationError("comment body cannot be empty", nil)
	}

	var commentID int
	err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := parentExists(tx, target.Kind.ParentTable(), target.ID, string(target.Kind)); err != nil {
			return err
		}

		var err error
		switch target.Kind {
		case comments.OnAnswer:
			c := models.AnswerComment{Body: body, AuthorID: authorID, AnswerID: target.ID}
			err = tx.Omit(clause.Associations).Create(&c).Error
			commentID = c.ID
		default:
			c := models.QuestionComment{Body: body, AuthorID: authorID, QuestionID: target.ID}
			err = tx.Omit(clause.Associations).Create(&c).Error
			commentID = c.ID
		}
		if err != nil {
			return apperror.NewDatabaseError("failed to create comment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return w.mapper.GetComment(ctx, target.Kind, commentID)
}

func (w *Writer) UpdateComment(ctx context.Context, userID int, kind comments.Kind, commentID int, body string) (*views.CommentView, error) {
	if validation.Blank(body) {
		return nil, apperror.NewValidationError("comment body cannot be empty", nil)
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, kind.Table(), "author_id", commentID, userID, "comment"); err != nil {
			return err
		}
		err := tx.Model(commentModel(kind)).
			Where("id = ?", commentID).
			Update("body", strings.TrimSpace(body)).Error
		if err != nil {
			return apperror.NewDatabaseError("failed to update comment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return w.mapper.GetComment(ctx, kind, commentID)
}

func (w *Writer) DeleteComment(ctx context.Context, userID int, kind comments.Kind, commentID int) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireOwner(tx, kind.Table(), "author_id", commentID, userID, "comment"); err != nil {
			return err
		}
		if err := tx.Delete(commentModel(kind), commentID).Error; err != nil {
			return apperror.NewDatabaseError("failed to delete comment", err)
		}
		return nil
	})
}
