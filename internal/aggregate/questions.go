package aggregate

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

const questionColumns = `q.id, q.title, q.body, q.vote_count, q.created_at, q.updated_at,
	u.id AS asker_id, u.name AS asker_name,
	(SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id) AS answer_count`

func (m *Mapper) questions(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx).
		Table("questions AS q").
		Joins("JOIN users u ON u.id = q.asked_by")
}

// GetQuestionFull returns a question with its asker, tags and answer count.
func (m *Mapper) GetQuestionFull(ctx context.Context, questionID int) (*views.QuestionView, error) {
	var rows []questionRow
	err := m.questions(ctx).
		Select(questionColumns).
		Where("q.id = ?", questionID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load question", err)
	}
	if len(rows) == 0 {
		return nil, apperror.NewNotFoundError("question not found", nil)
	}

	tags, err := m.tagsFor(ctx, []int{questionID})
	if err != nil {
		return nil, err
	}
	v := rows[0].view(tags[questionID])
	return &v, nil
}

// ListQuestions returns one page of questions matching f.
func (m *Mapper) ListQuestions(ctx context.Context, f QuestionFilter, p views.Pagination) (views.Paginated[views.QuestionView], error) {
	var empty views.Paginated[views.QuestionView]

	f, err := f.normalize()
	if err != nil {
		return empty, err
	}
	p = views.NewPagination(p.Page, p.Limit)

	base := f.scope(m.questions(ctx)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return empty, apperror.NewDatabaseError("failed to count questions", err)
	}

	var rows []questionRow
	err = base.
		Select(questionColumns).
		Order(f.order()).
		Limit(p.Limit).
		Offset(p.Offset()).
		Scan(&rows).Error
	if err != nil {
		return empty, apperror.NewDatabaseError("failed to list questions", err)
	}

	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	tags, err := m.tagsFor(ctx, ids)
	if err != nil {
		return empty, err
	}

	items := make([]views.QuestionView, len(rows))
	for i, r := range rows {
		items[i] = r.view(tags[r.ID])
	}
	return views.NewPaginated(items, total, p), nil
}

type questionTagRow struct {
	QuestionID int
	ID         int
	Name       string
}

// tagsFor loads the tags of every listed question in one query.
func (m *Mapper) tagsFor(ctx context.Context, questionIDs []int) (map[int][]views.TagRef, error) {
	out := make(map[int][]views.TagRef, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}

	var rows []questionTagRow
	err := m.db.WithContext(ctx).Raw(`
		SELECT qt.question_id, t.id, t.name
		FROM question_tags qt
		JOIN tags t ON t.id = qt.tag_id
		WHERE qt.question_id IN ?
		ORDER BY t.name`, questionIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load question tags", err)
	}

	for _, r := range rows {
		out[r.QuestionID] = append(out[r.QuestionID], views.TagRef{ID: r.ID, Name: r.Name})
	}
	return out, nil
}
