package aggregate

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/comments"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

func commentSelect(kind comments.Kind) string {
	return fmt.Sprintf(`
SELECT c.id, c.body, c.created_at, c.updated_at, c.%s AS parent_id,
	u.id AS author_id, u.name AS author_name
FROM %s c
JOIN users u ON u.id = c.author_id
`, kind.ParentColumn(), kind.Table())
}

func (r commentRow) view(kind comments.Kind) views.CommentView {
	return views.CommentView{
		ID:         r.ID,
		Body:       r.Body,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Author:     views.UserRef{ID: r.AuthorID, Name: r.AuthorName},
		ParentType: string(kind),
		ParentID:   r.ParentID,
	}
}

// ListComments returns the comments on target, newest first.
func (m *Mapper) ListComments(ctx context.Context, target comments.Target) ([]views.CommentView, error) {
	ok, err := exists(ctx, m.db, target.Kind.ParentTable(), target.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("%s not found", target.Kind), nil)
	}

	var rows []commentRow
	query := commentSelect(target.Kind) +
		fmt.Sprintf("WHERE c.%s = ? ORDER BY c.created_at DESC, c.id DESC", target.Kind.ParentColumn())
	if err := m.db.WithContext(ctx).Raw(query, target.ID).Scan(&rows).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to load comments", err)
	}

	out := make([]views.CommentView, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view(target.Kind))
	}
	return out, nil
}

// GetComment returns one comment of the given kind.
func (m *Mapper) GetComment(ctx context.Context, kind comments.Kind, commentID int) (*views.CommentView, error) {
	var rows []commentRow
	query := commentSelect(kind) + "WHERE c.id = ?"
	if err := m.db.WithContext(ctx).Raw(query, commentID).Scan(&rows).Error; err != nil {
		return nil, apperror.NewDatabaseError("failed to load comment", err)
	}
	if len(rows) == 0 {
		return nil, apperror.NewNotFoundError("comment not found", nil)
	}
	v := rows[0].view(kind)
	return &v, nil
}
