package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/qa-forum/backend/internal/aggregate"
	"github.com/emilythestrangee/qa-forum/backend/internal/comments"
	"github.com/emilythestrangee/qa-forum/backend/internal/content"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
)

type CommentHandler struct {
	mapper *aggregate.Mapper
	writer *content.Writer
}

func NewCommentHandler(mapper *aggregate.Mapper, writer *content.Writer) *CommentHandler {
	return &CommentHandler{mapper: mapper, writer: writer}
}

// GetComments returns the comments on a question or an answer, newest first
func (h *CommentHandler) GetComments(kind comments.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		target, err := comments.For(kind, id)
		if err != nil {
			respondError(c, err)
			return
		}

		list, err := h.mapper.ListComments(c.Request.Context(), target)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "comments": list})
	}
}

// CreateCommentOn comments on the question or answer in the path (PROTECTED)
func (h *CommentHandler) CreateCommentOn(kind comments.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var input models.CommentRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		in := content.CommentInput{Body: input.Body}
		if kind == comments.OnAnswer {
			in.AnswerID = &id
		} else {
			in.QuestionID = &id
		}
		h.create(c, in)
	}
}

// CreateComment takes the parent from the body (PROTECTED)
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	h.create(c, content.CommentInput{QuestionID: input.QuestionID, AnswerID: input.AnswerID, Body: input.Body})
}

func (h *CommentHandler) create(c *gin.Context, in content.CommentInput) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	comment, err := h.writer.CreateComment(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment created successfully", "comment": comment})
}

func commentKind(c *gin.Context) (comments.Kind, bool) {
	kind, err := comments.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return kind, true
}

// UpdateComment updates a comment (PROTECTED - requires ownership)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	kind, ok := commentKind(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var input models.CommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.writer.UpdateComment(c.Request.Context(), userID, kind, id, input.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated successfully", "comment": comment})
}

// DeleteComment deletes a comment (PROTECTED - requires ownership)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	kind, ok := commentKind(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := h.writer.DeleteComment(c.Request.Context(), userID, kind, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
