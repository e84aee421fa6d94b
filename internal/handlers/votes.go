package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/votes"
)

type VoteHandler struct {
	ledger *votes.Ledger
}

func NewVoteHandler(ledger *votes.Ledger) *VoteHandler {
	return &VoteHandler{ledger: ledger}
}

// VoteAnswer handles upvoting/downvoting an answer (PROTECTED - requires authentication).
// Casting the same vote again removes it; casting the other one switches it.
func (h *VoteHandler) VoteAnswer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	answerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote type must be -1 or 1"})
		return
	}

	result, err := h.ledger.CastOrToggleVote(c.Request.Context(), answerID, userID, input.VoteType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetVotes returns an answer's vote totals and, for a signed-in caller, their vote
func (h *VoteHandler) GetVotes(c *gin.Context) {
	answerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.ledger.Stats(c.Request.Context(), answerID)
	if err != nil {
		respondError(c, err)
		return
	}

	userVote := votes.None
	if caller := optionalUser(c); caller != nil {
		if userVote, err = h.ledger.UserVote(c.Request.Context(), answerID, *caller); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"votes": stats, "userVote": int(userVote)})
}
