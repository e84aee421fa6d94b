package models

import "time"

type QuestionComment struct {
	ID         int       `gorm:"primaryKey"`
	Body       string    `gorm:"type:text;not null"`
	AuthorID   int       `gorm:"not null;index"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	QuestionID int       `gorm:"not null;index"`
	Question   Question  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AnswerComment struct {
	ID        int       `gorm:"primaryKey"`
	Body      string    `gorm:"type:text;not null"`
	AuthorID  int       `gorm:"not null;index"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	AnswerID  int       `gorm:"not null;index"`
	Answer    Answer    `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// CreateCommentRequest names the parent in the body; exactly one id must be set.
type CreateCommentRequest struct {
	QuestionID *int   `json:"questionId"`
	AnswerID   *int   `json:"answerId"`
	Body       string `json:"body" binding:"required"`
}
