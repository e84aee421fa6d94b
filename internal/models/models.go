package models

// All returns every persisted model in dependency order, parents first.
func All() []any {
	return []any{
		&User{},
		&Tag{},
		&Question{},
		&QuestionTag{},
		&Answer{},
		&AnswerVote{},
		&QuestionComment{},
		&AnswerComment{},
	}
}
