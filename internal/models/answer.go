package models

import "time"

type Answer struct {
	ID         int       `gorm:"primaryKey"`
	Body       string    `gorm:"type:text;not null"`
	AuthorID   int       `gorm:"not null;index"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	QuestionID int       `gorm:"not null;index"`
	Question   Question  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	VoteCount  int       `gorm:"not null;default:0"` // always sum(answer_votes.vote_type)
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

type CreateAnswerRequest struct {
	Body string `json:"body" binding:"required"`
}

type UpdateAnswerRequest struct {
	Body string `json:"body" binding:"required"`
}
