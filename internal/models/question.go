package models

import "time"

type Question struct {
	ID        int       `gorm:"primaryKey"`
	Title     string    `gorm:"size:500;not null"`
	Body      string    `gorm:"type:text;not null"`
	AskedBy   int       `gorm:"column:asked_by;not null;index"`
	Asker     User      `gorm:"foreignKey:AskedBy;constraint:OnDelete:CASCADE"`
	VoteCount int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// QuestionTag is the pure association row between a question and a tag.
type QuestionTag struct {
	QuestionID int      `gorm:"primaryKey;autoIncrement:false"`
	Question   Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	TagID      int      `gorm:"primaryKey;autoIncrement:false;index"`
	Tag        Tag      `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

type CreateQuestionRequest struct {
	Title string   `json:"title" binding:"required"`
	Body  string   `json:"body" binding:"required"`
	Tags  []string `json:"tags"`
}

// UpdateQuestionRequest uses pointers so an omitted field is told apart
// from one sent empty: a nil Tags leaves the tag set untouched.
type UpdateQuestionRequest struct {
	Title *string   `json:"title"`
	Body  *string   `json:"body"`
	Tags  *[]string `json:"tags"`
}
