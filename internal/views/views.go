// Package views holds the denormalized response shapes produced by the
// aggregation layer. Every entity exposes a single integer id, camelCase
// timestamps and owners as nested {id, name} objects.
package views

import "time"

type UserRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TagRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TagView is a tag with the number of questions carrying it.
type TagView struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}

type VoteStats struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	Score     int `json:"score"`
}

type QuestionView struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	VoteCount   int       `json:"voteCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	AskedBy     UserRef   `json:"askedBy"`
	Tags        []TagRef  `json:"tags"`
	AnswerCount int       `json:"answerCount"`
}

// QuestionRef is the short question summary attached to a user's answers.
type QuestionRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type AnswerView struct {
	ID         int          `json:"id"`
	Body       string       `json:"body"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	QuestionID int          `json:"questionId"`
	Question   *QuestionRef `json:"question,omitempty"`
	Author     UserRef      `json:"author"`
	Votes      VoteStats    `json:"votes"`
	UserVote   int          `json:"userVote"`
}

type CommentView struct {
	ID         int       `json:"id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Author     UserRef   `json:"author"`
	ParentType string    `json:"parentType"`
	ParentID   int       `json:"parentId"`
}

// UserView never carries the password hash or refresh credential.
type UserView struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoteResult is returned after every vote toggle.
type VoteResult struct {
	Message  string    `json:"message"`
	Votes    VoteStats `json:"votes"`
	UserVote int       `json:"userVote"`
}

// TagQuestions is one page of questions carrying a tag.
type TagQuestions struct {
	Tag TagRef `json:"tag"`
	Paginated[QuestionView]
}
