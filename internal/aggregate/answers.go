package aggregate

import (
	"context"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

// answerSelect joins the vote totals with a LEFT JOIN so answers without
// votes come back with zeros. The single placeholder is the caller's id;
// 0 matches no user.
const answerSelect = `
SELECT a.id, a.body, a.created_at, a.updated_at, a.question_id,
	qn.title AS question_title,
	u.id AS author_id, u.name AS author_name,
	COALESCE(v.upvotes, 0) AS upvotes,
	COALESCE(v.downvotes, 0) AS downvotes,
	COALESCE(v.score, 0) AS score,
	COALESCE(mv.vote_type, 0) AS user_vote
FROM answers a
JOIN users u ON u.id = a.author_id
JOIN questions qn ON qn.id = a.question_id
LEFT JOIN (
	SELECT answer_id,
		SUM(CASE WHEN vote_type = 1 THEN 1 ELSE 0 END) AS upvotes,
		SUM(CASE WHEN vote_type = -1 THEN 1 ELSE 0 END) AS downvotes,
		SUM(vote_type) AS score
	FROM answer_votes
	GROUP BY answer_id
) v ON v.answer_id = a.id
LEFT JOIN answer_votes mv ON mv.answer_id = a.id AND mv.user_id = ?
`

const answerOrder = " ORDER BY a.created_at DESC, a.id DESC"

func callerOrZero(callerID *int) int {
	if callerID == nil {
		return 0
	}
	return *callerID
}

func (m *Mapper) scanAnswers(ctx context.Context, where string, args ...any) ([]answerRow, error) {
	var rows []answerRow
	err := m.db.WithContext(ctx).Raw(answerSelect+where, args...).Scan(&rows).Error
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load answers", err)
	}
	return rows, nil
}

// GetAnswerFull returns an answer with author, vote totals and the caller's vote.
func (m *Mapper) GetAnswerFull(ctx context.Context, answerID int, callerID *int) (*views.AnswerView, error) {
	rows, err := m.scanAnswers(ctx, "WHERE a.id = ?", callerOrZero(callerID), answerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NewNotFoundError("answer not found", nil)
	}
	v := rows[0].view()
	return &v, nil
}

// ListAnswersForQuestion returns the question's answers, newest first.
func (m *Mapper) ListAnswersForQuestion(ctx context.Context, questionID int, callerID *int) ([]views.AnswerView, error) {
	ok, err := exists(ctx, m.db, "questions", questionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFoundError("question not found", nil)
	}

	rows, err := m.scanAnswers(ctx, "WHERE a.question_id = ?"+answerOrder, callerOrZero(callerID), questionID)
	if err != nil {
		return nil, err
	}

	out := make([]views.AnswerView, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view())
	}
	return out, nil
}

// ListAnswersByUser returns everything userID has answered, each with the
// title of its question.
func (m *Mapper) ListAnswersByUser(ctx context.Context, userID int) ([]views.AnswerView, error) {
	ok, err := exists(ctx, m.db, "users", userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}

	rows, err := m.scanAnswers(ctx, "WHERE a.author_id = ?"+answerOrder, userID, userID)
	if err != nil {
		return nil, err
	}

	out := make([]views.AnswerView, 0, len(rows))
	for _, r := range rows {
		v := r.view()
		v.Question = &views.QuestionRef{ID: r.QuestionID, Title: r.QuestionTitle}
		out = append(out, v)
	}
	return out, nil
}
