// Package aggregate builds the populated read views of questions, answers and
// comments from the normalized tables. Every view leaves here with the same
// shape no matter which query produced it.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

type Mapper struct {
	db *gorm.DB
}

func NewMapper(db *gorm.DB) *Mapper {
	return &Mapper{db: db}
}

// WithTx returns a mapper reading through tx, so a writer can return the
// populated view of a row it has not committed yet.
func (m *Mapper) WithTx(tx *gorm.DB) *Mapper {
	return &Mapper{db: tx}
}

type questionRow struct {
	ID          int
	Title       string
	Body        string
	VoteCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AskerID     int
	AskerName   string
	AnswerCount int
}

func (r questionRow) view(tags []views.TagRef) views.QuestionView {
	if tags == nil {
		tags = []views.TagRef{}
	}
	return views.QuestionView{
		ID:          r.ID,
		Title:       r.Title,
		Body:        r.Body,
		VoteCount:   r.VoteCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		AskedBy:     views.UserRef{ID: r.AskerID, Name: r.AskerName},
		Tags:        tags,
		AnswerCount: r.AnswerCount,
	}
}

type answerRow struct {
	ID            int
	Body          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	QuestionID    int
	QuestionTitle string
	AuthorID      int
	AuthorName    string
	Upvotes       int
	Downvotes     int
	Score         int
	UserVote      int
}

func (r answerRow) view() views.AnswerView {
	return views.AnswerView{
		ID:         r.ID,
		Body:       r.Body,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		QuestionID: r.QuestionID,
		Author:     views.UserRef{ID: r.AuthorID, Name: r.AuthorName},
		Votes:      views.VoteStats{Upvotes: r.Upvotes, Downvotes: r.Downvotes, Score: r.Score},
		UserVote:   r.UserVote,
	}
}

type commentRow struct {
	ID         int
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	AuthorID   int
	AuthorName string
	ParentID   int
}

// exists reports whether table has a row with id.
func exists(ctx context.Context, db *gorm.DB, table string, id int) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, apperror.NewDatabaseError(fmt.Sprintf("failed to look up %s", table), err)
	}
	return n > 0, nil
}
