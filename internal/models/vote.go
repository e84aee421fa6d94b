package models

import "time"

// AnswerVote tracks one user's vote on one answer.
type AnswerVote struct {
	ID        int       `gorm:"primaryKey"`
	AnswerID  int       `gorm:"not null;uniqueIndex:uq_answer_user"`
	Answer    Answer    `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
	UserID    int       `gorm:"not null;uniqueIndex:uq_answer_user;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	VoteType  int       `gorm:"not null;check:chk_answer_votes_type,vote_type = 1 OR vote_type = -1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type VoteRequest struct {
	VoteType int `json:"voteType" binding:"required,oneof=-1 1"`
}
