package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/qa-forum/backend/internal/aggregate"
	"github.com/emilythestrangee/qa-forum/backend/internal/content"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
)

type AnswerHandler struct {
	mapper *aggregate.Mapper
	writer *content.Writer
}

func NewAnswerHandler(mapper *aggregate.Mapper, writer *content.Writer) *AnswerHandler {
	return &AnswerHandler{mapper: mapper, writer: writer}
}

// GetAnswers lists a question's answers, newest first, with the caller's own votes
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	answers, err := h.mapper.ListAnswersForQuestion(c.Request.Context(), questionID, optionalUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *AnswerHandler) GetAnswer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.mapper.GetAnswerFull(c.Request.Context(), id, optionalUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAnswer answers a question (PROTECTED)
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.writer.CreateAnswer(c.Request.Context(), userID, questionID, input.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// UpdateAnswer (PROTECTED - requires ownership)
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.UpdateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.writer.UpdateAnswer(c.Request.Context(), userID, id, input.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAnswer removes an answer with its votes and comments (PROTECTED - requires ownership)
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.writer.DeleteAnswer(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// GetMyAnswers returns the caller's answers with their question titles (PROTECTED)
func (h *AnswerHandler) GetMyAnswers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	answers, err := h.mapper.ListAnswersByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}
