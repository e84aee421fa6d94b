package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/qa-forum/backend/internal/config"
	"github.com/emilythestrangee/qa-forum/backend/internal/database"
	"github.com/emilythestrangee/qa-forum/backend/internal/database/dbtest"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

type client struct {
	t      *testing.T
	router *gin.Engine
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{
		Server: &config.ServerConfig{Port: "0", CORSOrigins: []string{"http://localhost:5173"}},
		Auth: &config.AuthConfig{
			AccessSecret:  "access",
			RefreshSecret: "refresh",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
	}
	s := New(cfg, database.Wrap(dbtest.New(t)), nil)
	return &client{t: t, router: s.RegisterRoutes()}
}

func (c *client) do(method, path, token string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

// signUp registers and logs in a user, returning the access token and id.
func (c *client) signUp(name string) (string, int) {
	c.t.Helper()
	email := name + "@example.com"
	code := c.do(http.MethodPost, "/api/register", "", gin.H{"name": name, "email": email, "password": "hunter22"}, nil)
	require.Equal(c.t, http.StatusCreated, code)

	var session struct {
		User        views.UserView `json:"user"`
		AccessToken string         `json:"accessToken"`
	}
	code = c.do(http.MethodPost, "/api/login", "", gin.H{"email": email, "password": "hunter22"}, &session)
	require.Equal(c.t, http.StatusOK, code)
	require.NotEmpty(c.t, session.AccessToken)
	return session.AccessToken, session.User.ID
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	var health map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "up", health["status"])
}

func TestQuestionAnswerVoteFlow(t *testing.T) {
	c := newClient(t)
	ada, adaID := c.signUp("ada")
	bob, _ := c.signUp("bob")

	var q views.QuestionView
	code := c.do(http.MethodPost, "/api/questions", ada, gin.H{
		"title": "What is a goroutine?",
		"body":  "Asking for a friend",
		"tags":  []string{"Go", " go ", "concurrency"},
	}, &q)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, adaID, q.AskedBy.ID)
	assert.Len(t, q.Tags, 2)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/questions", "", gin.H{"title": "x", "body": "y"}, nil))

	var a views.AnswerView
	code = c.do(http.MethodPost, fmt.Sprintf("/api/questions/%d/answers", q.ID), bob, gin.H{"body": "A lightweight thread"}, &a)
	require.Equal(t, http.StatusCreated, code)

	var vote views.VoteResult
	path := fmt.Sprintf("/api/answers/%d/vote", a.ID)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, path, ada, gin.H{"voteType": 1}, &vote))
	assert.Equal(t, "upvoted", vote.Message)
	assert.Equal(t, 1, vote.Votes.Score)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, path, ada, gin.H{"voteType": -1}, &vote))
	assert.Equal(t, "vote changed to downvote", vote.Message)
	assert.Equal(t, -1, vote.Votes.Score)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, path, ada, gin.H{"voteType": 3}, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, fmt.Sprintf("/api/answers/%d/vote", a.ID+50), ada, gin.H{"voteType": 1}, nil))

	var answers []views.AnswerView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/api/questions/%d/answers", q.ID), ada, nil, &answers))
	require.Len(t, answers, 1)
	assert.Equal(t, -1, answers[0].UserVote)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/api/questions/%d/answers", q.ID), "", nil, &answers))
	assert.Equal(t, 0, answers[0].UserVote)

	var page views.Paginated[views.QuestionView]
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/questions?search=GOROUTINE&answered=answered", "", nil, &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Items[0].AnswerCount)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/questions?limit=500", "", nil, &page))
	assert.Equal(t, views.MaxLimit, page.Limit)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/questions?sort=random", "", nil, nil))

	var tagPage views.TagQuestions
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/tags/GO/questions", "", nil, &tagPage))
	assert.Equal(t, "go", tagPage.Tag.Name)
	assert.Equal(t, int64(1), tagPage.Total)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/tags/cobol/questions", "", nil, nil))

	var index []views.TagView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/tags", "", nil, &index))
	assert.Len(t, index, 2)

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, fmt.Sprintf("/api/questions/%d", q.ID), bob, nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, fmt.Sprintf("/api/questions/%d", q.ID), ada, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, fmt.Sprintf("/api/answers/%d", a.ID), "", nil, nil))
}

func TestCommentRoutes(t *testing.T) {
	c := newClient(t)
	ada, _ := c.signUp("ada")
	bob, _ := c.signUp("bob")

	var q views.QuestionView
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/questions", ada, gin.H{"title": "t", "body": "b"}, &q))

	both := gin.H{"questionId": q.ID, "answerId": 1, "body": "x"}
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/comments", bob, both, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/comments", bob, gin.H{"body": "x"}, nil))

	var created struct {
		Comment views.CommentView `json:"comment"`
	}
	code := c.do(http.MethodPost, fmt.Sprintf("/api/questions/%d/comments", q.ID), bob, gin.H{"body": "nice"}, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "question", created.Comment.ParentType)

	var listed struct {
		Count    int                 `json:"count"`
		Comments []views.CommentView `json:"comments"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/api/questions/%d/comments", q.ID), "", nil, &listed))
	assert.Equal(t, 1, listed.Count)

	path := fmt.Sprintf("/api/comments/question/%d", created.Comment.ID)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPatch, path, ada, gin.H{"body": "edit"}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPatch, fmt.Sprintf("/api/comments/post/%d", created.Comment.ID), bob, gin.H{"body": "edit"}, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodPatch, path, bob, gin.H{"body": "edit"}, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, path, bob, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, path, bob, nil, nil))
}

func TestAuthRoutes(t *testing.T) {
	c := newClient(t)
	token, id := c.signUp("ada")

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/register", "", gin.H{"name": "x", "email": "ada@example.com", "password": "hunter22"}, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/login", "", gin.H{"email": "ada@example.com", "password": "nope"}, nil))

	var me views.UserView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/me", token, nil, &me))
	assert.Equal(t, id, me.ID)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/me", "forged", nil, nil))

	var raw map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/api/users/%d", id), "", nil, &raw))
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "refreshToken")

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/users/abc", "", nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/logout", token, nil, nil))
}
