package aggregate

import (
	"strings"

	"gorm.io/gorm"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
)

// Answered narrows question listings by whether any answer exists.
type Answered string

const (
	AnsweredAny Answered = "any"
	Unanswered  Answered = "unanswered"
	AnsweredYes Answered = "answered"
)

type Sort string

const (
	SortNewest Sort = "newest"
	SortVotes  Sort = "votes"
)

// QuestionFilter selects questions for ListQuestions. Zero values mean
// "no restriction" and newest-first ordering.
type QuestionFilter struct {
	Search   string
	Answered Answered
	TagID    int
	AuthorID int
	Sort     Sort
}

func (f QuestionFilter) normalize() (QuestionFilter, error) {
	f.Search = strings.TrimSpace(f.Search)

	switch f.Answered {
	case "":
		f.Answered = AnsweredAny
	case AnsweredAny, Unanswered, AnsweredYes:
	default:
		return f, apperror.NewValidationError("answered must be one of any, unanswered, answered", nil)
	}

	switch f.Sort {
	case "":
		f.Sort = SortNewest
	case SortNewest, SortVotes:
	default:
		return f, apperror.NewValidationError("sort must be newest or votes", nil)
	}
	return f, nil
}

// scope applies the filter's conditions to a query over "questions AS q".
// Count and page queries both go through it so their totals agree.
func (f QuestionFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		db = db.Where(`(LOWER(q.title) LIKE ? ESCAPE '\'
			OR LOWER(q.body) LIKE ? ESCAPE '\'
			OR EXISTS (
				SELECT 1 FROM question_tags qt
				JOIN tags t ON t.id = qt.tag_id
				WHERE qt.question_id = q.id AND t.name LIKE ? ESCAPE '\'
			))`, pattern, pattern, pattern)
	}

	switch f.Answered {
	case Unanswered:
		db = db.Where("NOT EXISTS (SELECT 1 FROM answers a WHERE a.question_id = q.id)")
	case AnsweredYes:
		db = db.Where("EXISTS (SELECT 1 FROM answers a WHERE a.question_id = q.id)")
	}

	if f.TagID > 0 {
		db = db.Where("EXISTS (SELECT 1 FROM question_tags qt WHERE qt.question_id = q.id AND qt.tag_id = ?)", f.TagID)
	}
	if f.AuthorID > 0 {
		db = db.Where("q.asked_by = ?", f.AuthorID)
	}
	return db
}

func (f QuestionFilter) order() string {
	if f.Sort == SortVotes {
		return "q.vote_count DESC, q.created_at DESC, q.id DESC"
	}
	return "q.created_at DESC, q.id DESC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
