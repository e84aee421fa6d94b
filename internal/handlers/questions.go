package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/qa-forum/backend/internal/aggregate"
	"github.com/emilythestrangee/qa-forum/backend/internal/content"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

type QuestionHandler struct {
	mapper *aggregate.Mapper
	writer *content.Writer
}

func NewQuestionHandler(mapper *aggregate.Mapper, writer *content.Writer) *QuestionHandler {
	return &QuestionHandler{mapper: mapper, writer: writer}
}

// GetQuestions lists questions: ?page&limit&search&answered&tagId&sort
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	filter := aggregate.QuestionFilter{
		Search:   c.Query("search"),
		Answered: aggregate.Answered(c.Query("answered")),
		TagID:    queryInt(c, "tagId"),
		Sort:     aggregate.Sort(c.Query("sort")),
	}
	page := views.NewPagination(queryInt(c, "page"), queryInt(c, "limit"))

	result, err := h.mapper.ListQuestions(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetQuestion returns a single question by ID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	q, err := h.mapper.GetQuestionFull(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// CreateQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	q, err := h.writer.CreateQuestion(c.Request.Context(), userID, content.QuestionInput{
		Title: input.Title,
		Body:  input.Body,
		Tags:  input.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// UpdateQuestion updates an existing question (PROTECTED - requires ownership)
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	q, err := h.writer.UpdateQuestion(c.Request.Context(), userID, id, content.QuestionPatch{
		Title: input.Title,
		Body:  input.Body,
		Tags:  input.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// DeleteQuestion deletes a question and everything under it (PROTECTED - requires ownership)
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.writer.DeleteQuestion(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// GetUserQuestions returns all questions asked by a specific user
func (h *QuestionHandler) GetUserQuestions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page := views.NewPagination(queryInt(c, "page"), queryInt(c, "limit"))

	result, err := h.mapper.ListQuestions(c.Request.Context(), aggregate.QuestionFilter{AuthorID: id}, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
