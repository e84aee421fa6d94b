package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/qa-forum/backend/internal/tags"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

type TagHandler struct {
	manager *tags.Manager
}

func NewTagHandler(manager *tags.Manager) *TagHandler {
	return &TagHandler{manager: manager}
}

// GetTags lists every tag with its question count
func (h *TagHandler) GetTags(c *gin.Context) {
	index, err := h.manager.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, index)
}

// GetTagQuestions pages through the questions carrying :name
func (h *TagHandler) GetTagQuestions(c *gin.Context) {
	page := views.NewPagination(queryInt(c, "page"), queryInt(c, "limit"))
	result, err := h.manager.ListQuestionsForTag(c.Request.Context(), c.Param("name"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
