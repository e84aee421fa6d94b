package aggregate_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/qa-forum/backend/internal/aggregate"
	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/comments"
	"github.com/emilythestrangee/qa-forum/backend/internal/database/dbtest"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

func intPtr(n int) *int { return &n }

func TestGetQuestionFull(t *testing.T) {
	db := dbtest.New(t)
	m := aggregate.NewMapper(db)
	ctx := context.Background()

	ada := dbtest.User(t, db, "ada")
	q := dbtest.Question(t, db, ada.ID, "Goroutines vs threads")
	golang := dbtest.Tag(t, db, "go")
	conc := dbtest.Tag(t, db, "concurrency")
	dbtest.Tagged(t, db, q.ID, golang.ID)
	dbtest.Tagged(t, db, q.ID, conc.ID)
	dbtest.Answer(t, db, q.ID, ada.ID, "cheaper")
	dbtest.Answer(t, db, q.ID, ada.ID, "scheduled by the runtime")

	v, err := m.GetQuestionFull(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, v.ID)
	assert.Equal(t, "Goroutines vs threads", v.Title)
	assert.Equal(t, views.UserRef{ID: ada.ID, Name: "ada"}, v.AskedBy)
	assert.Equal(t, []views.TagRef{{ID: conc.ID, Name: "concurrency"}, {ID: golang.ID, Name: "go"}}, v.Tags)
	assert.Equal(t, 2, v.AnswerCount)
	assert.False(t, v.CreatedAt.IsZero())

	_, err = m.GetQuestionFull(ctx, q.ID+1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestQuestionWithoutTagsHasEmptyList(t *testing.T) {
	db := dbtest.New(t)
	ada := dbtest.User(t, db, "ada")
	q := dbtest.Question(t, db, ada.ID, "lonely")

	v, err := aggregate.NewMapper(db).GetQuestionFull(context.Background(), q.ID)
	require.NoError(t, err)
	assert.NotNil(t, v.Tags)
	assert.Empty(t, v.Tags)
	assert.Zero(t, v.AnswerCount)
}

func TestGetAnswerFull(t *testing.T) {
	db := dbtest.New(t)
	m := aggregate.NewMapper(db)
	ctx := context.Background()

	ada := dbtest.User(t, db, "ada")
	bob := dbtest.User(t, db, "bob")
	cy := dbtest.User(t, db, "cy")
	q := dbtest.Question(t, db, ada.ID, "q")
	a := dbtest.Answer(t, db, q.ID, bob.ID, "a")

	v, err := m.GetAnswerFull(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, views.VoteStats{}, v.Votes)
	assert.Equal(t, 0, v.UserVote)
	assert.Equal(t, views.UserRef{ID: bob.ID, Name: "bob"}, v.Author)
	assert.Equal(t, q.ID, v.QuestionID)

	dbtest.Vote(t, db, a.ID, ada.ID, 1)
	dbtest.Vote(t, db, a.ID, cy.ID, -1)

	v, err = m.GetAnswerFull(ctx, a.ID, intPtr(cy.ID))
	require.NoError(t, err)
	assert.Equal(t, views.VoteStats{Upvotes: 1, Downvotes: 1, Score: 0}, v.Votes)
	assert.Equal(t, -1, v.UserVote)

	v, err = m.GetAnswerFull(ctx, a.ID, intPtr(bob.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, v.UserVote)

	_, err = m.GetAnswerFull(ctx, a.ID+1, nil)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListAnswersForQuestion(t *testing.T) {
	db := dbtest.New(t)
	m := aggregate.NewMapper(db)
	ctx := context.Background()

	ada := dbtest.User(t, db, "ada")
	q := dbtest.Question(t, db, ada.ID, "q")

	list, err := m.ListAnswersForQuestion(ctx, q.ID, nil)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	first := dbtest.Answer(t, db, q.ID, ada.ID, "first")
	second := dbtest.Answer(t, db, q.ID, ada.ID, "second")
	dbtest.Vote(t, db, first.ID, ada.ID, 1)

	list, err = m.ListAnswersForQuestion(ctx, q.ID, intPtr(ada.ID))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 1, list[1].Votes.Score)
	assert.Equal(t, 1, list[1].UserVote)
	assert.Equal(t, 0, list[0].UserVote)

	_, err = m.ListAnswersForQuestion(ctx, q.ID+1, nil)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListAnswersByUser(t *testing.T) {
	db := dbtest.New(t)
	m := aggregate.NewMapper(db)
	ctx := context.Background()

	ada := dbtest.User(t, db, "ada")
	bob := dbtest.User(t, db, "bob")
	q := dbtest.Question(t, db, ada.ID, "Where is the index?")
	dbtest.Answer(t, db, q.ID, bob.ID, "here")
	dbtest.Answer(t, db, q.ID, ada.ID, "not mine")

	list, err := m.ListAnswersByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Question)
	assert.Equal(t, views.QuestionRef{ID: q.ID, Title: "Where is the index?"}, *list[0].Question)

	_, err = m.ListAnswersByUser(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListQuestionsPagination(t *testing.T) {
	db := dbtest.New(t)
	m := aggregate.NewMapper(db)
	ctx := context.Background()

	ada := dbtest.User(t, db, "ada")
	for i := range 23 {
		dbtest.Question(t, db, ada.ID, fmt.Sprintf("question %02d", i))
	}

	seen := map[int]bool{}
	for page := 1; page <= 3; page++ {
		res, err := m.ListQuestions(ctx, aggregate.QuestionFilter{}, views.NewPagination(page, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(23), res.Total)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, page, res.CurrentPage)

		want := 10
		if page == 3 {
			want = 3
		}
		assert.Len(t, res.Items, want)
		for _, item := range res.Items {
			assert.False(t, seen[item.ID], "question %d listed twice", item.ID)
			seen[item.ID] = true
		}
	}
	assert.Len(t, seen, 23)

	res, err := m.ListQuestions(ctx, aggregate.QuestionFilter{}, views.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Equal(t, "question 22", res.Items[0].Title)

	res, err = m.ListQuestions(ctx, aggregate.QuestionFilter{}, views.NewPagination(9, 10))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(23), res.Total)
}

func TestListQuestionsFilters(t *testing.T) {
	db := dbtest.New(t)
	m := aggregate.NewMapper(db)
	ctx := context.Background()
	all := views.NewPagination(1, 50)

	ada := dbtest.User(t, db, "ada")
	bob := dbtest.User(t, db, "bob")

	byTitle := dbtest.Question(t, db, ada.ID, "Postgres locking")
	byTag := dbtest.Question(t, db, bob.ID, "Row versions")
	plain := dbtest.Question(t, db, bob.ID, "100% coverage?")
	pg := dbtest.Tag(t, db, "postgres")
	dbtest.Tagged(t, db, byTag.ID, pg.ID)
	dbtest.Answer(t, db, plain.ID, ada.ID, "no")

	ids := func(f aggregate.QuestionFilter) []int {
		t.Helper()
		res, err := m.ListQuestions(ctx, f, all)
		require.NoError(t, err)
		assert.Equal(t, int64(len(res.Items)), res.Total)
		out := make([]int, 0, len(res.Items))
		for _, item := range res.Items {
			out = append(out, item.ID)
		}
		return out
	}

	assert.ElementsMatch(t, []int{byTitle.ID, byTag.ID}, ids(aggregate.QuestionFilter{Search: "POSTGRES"}))
	assert.ElementsMatch(t, []int{plain.ID}, ids(aggregate.QuestionFilter{Search: "100%"}))
	assert.Empty(t, ids(aggregate.QuestionFilter{Search: "_"}))
	assert.ElementsMatch(t, []int{plain.ID}, ids(aggregate.QuestionFilter{Answered: aggregate.AnsweredYes}))
	assert.ElementsMatch(t, []int{byTitle.ID, byTag.ID}, ids(aggregate.QuestionFilter{Answered: aggregate.Unanswered}))
	assert.ElementsMatch(t, []int{byTag.ID}, ids(aggregate.QuestionFilter{TagID: pg.ID}))
	assert.ElementsMatch(t, []int{byTag.ID, plain.ID}, ids(aggregate.QuestionFilter{AuthorID: bob.ID}))
	assert.ElementsMatch(t, []int{byTag.ID}, ids(aggregate.QuestionFilter{AuthorID: bob.ID, Answered: aggregate.Unanswered}))

	_, err := m.ListQuestions(ctx, aggregate.QuestionFilter{Answered: "maybe"}, all)
	assert.True(t, apperror.IsValidation(err))
	_, err = m.ListQuestions(ctx, aggregate.QuestionFilter{Sort: "random"}, all)
	assert.True(t, apperror.IsValidation(err))
}

func TestListQuestionsSortByVotes(t *testing.T) {
	db := dbtest.New(t)
	m := aggregate.NewMapper(db)

	ada := dbtest.User(t, db, "ada")
	low := dbtest.Question(t, db, ada.ID, "low")
	high := dbtest.Question(t, db, ada.ID, "high")
	mid := dbtest.Question(t, db, ada.ID, "mid")
	require.NoError(t, db.Model(&models.Question{}).Where("id = ?", high.ID).UpdateColumn("vote_count", 5).Error)
	require.NoError(t, db.Model(&models.Question{}).Where("id = ?", mid.ID).UpdateColumn("vote_count", 2).Error)

	res, err := m.ListQuestions(context.Background(), aggregate.QuestionFilter{Sort: aggregate.SortVotes}, views.NewPagination(1, 10))
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, []int{high.ID, mid.ID, low.ID}, []int{res.Items[0].ID, res.Items[1].ID, res.Items[2].ID})
}

func TestComments(t *testing.T) {
	db := dbtest.New(t)
	m := aggregate.NewMapper(db)
	ctx := context.Background()

	ada := dbtest.User(t, db, "ada")
	q := dbtest.Question(t, db, ada.ID, "q")
	a := dbtest.Answer(t, db, q.ID, ada.ID, "a")

	older := models.QuestionComment{Body: "first", AuthorID: ada.ID, QuestionID: q.ID}
	newer := models.QuestionComment{Body: "second", AuthorID: ada.ID, QuestionID: q.ID}
	onAnswer := models.AnswerComment{Body: "on answer", AuthorID: ada.ID, AnswerID: a.ID}
	require.NoError(t, db.Omit("Author", "Question").Create(&older).Error)
	require.NoError(t, db.Omit("Author", "Question").Create(&newer).Error)
	require.NoError(t, db.Omit("Author", "Answer").Create(&onAnswer).Error)

	list, err := m.ListComments(ctx, comments.Target{Kind: comments.OnQuestion, ID: q.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Body)
	assert.Equal(t, "question", list[0].ParentType)
	assert.Equal(t, q.ID, list[0].ParentID)
	assert.Equal(t, views.UserRef{ID: ada.ID, Name: "ada"}, list[0].Author)

	list, err = m.ListComments(ctx, comments.Target{Kind: comments.OnAnswer, ID: a.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "answer", list[0].ParentType)

	empty, err := m.ListComments(ctx, comments.Target{Kind: comments.OnAnswer, ID: a.ID + 5})
	assert.True(t, apperror.IsNotFound(err))
	assert.Nil(t, empty)

	c, err := m.GetComment(ctx, comments.OnAnswer, onAnswer.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, c.ParentID)

	_, err = m.GetComment(ctx, comments.OnQuestion, 999)
	assert.True(t, apperror.IsNotFound(err))
}
