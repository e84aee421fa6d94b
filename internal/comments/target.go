// Package comments models what a comment hangs off: exactly one question or
// exactly one answer. The two cases live in separate tables.
package comments

import (
	"fmt"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
)

type Kind string

const (
	OnQuestion Kind = "question"
	OnAnswer   Kind = "answer"
)

// ParseKind accepts "question" or "answer".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case OnQuestion, OnAnswer:
		return Kind(s), nil
	default:
		return "", apperror.NewValidationError(fmt.Sprintf("unknown comment parent %q", s), nil)
	}
}

// Table is the storage table holding comments of this kind.
func (k Kind) Table() string {
	if k == OnAnswer {
		return "answer_comments"
	}
	return "question_comments"
}

// ParentColumn is the foreign key column in Table.
func (k Kind) ParentColumn() string {
	if k == OnAnswer {
		return "answer_id"
	}
	return "question_id"
}

// ParentTable is the table the parent row lives in.
func (k Kind) ParentTable() string {
	if k == OnAnswer {
		return "answers"
	}
	return "questions"
}

type Target struct {
	Kind Kind
	ID   int
}

// NewTarget builds a Target from the two optional parent ids.
// Exactly one of them must be set.
func NewTarget(questionID, answerID *int) (Target, error) {
	switch {
	case questionID != nil && answerID != nil:
		return Target{}, apperror.NewValidationError("a comment targets either a question or an answer, not both", nil)
	case questionID == nil && answerID == nil:
		return Target{}, apperror.NewValidationError("a comment needs a question or an answer to attach to", nil)
	case questionID != nil:
		return For(OnQuestion, *questionID)
	default:
		return For(OnAnswer, *answerID)
	}
}

// For builds a Target of a known kind.
func For(kind Kind, id int) (Target, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Target{}, err
	}
	if id <= 0 {
		return Target{}, apperror.NewValidationError(fmt.Sprintf("invalid %s id", kind), nil)
	}
	return Target{Kind: kind, ID: id}, nil
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}
