// Package dbtest opens throwaway SQLite databases with the production schema
// and seeds the rows most service tests need.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/qa-forum/backend/internal/database"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
)

var seq atomic.Int64

// New returns a migrated in-memory database private to t.
// A single connection keeps SQLite from reporting "database is locked"
// when a transaction is open.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:qa_test_%d?mode=memory&cache=shared&_foreign_keys=1", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func create(t testing.TB, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Omit(clause.Associations).Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

func User(t testing.TB, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", Password: "x"}
	create(t, db, &u)
	return u
}

func Question(t testing.TB, db *gorm.DB, askedBy int, title string) models.Question {
	t.Helper()
	q := models.Question{Title: title, Body: title + " body", AskedBy: askedBy}
	create(t, db, &q)
	return q
}

func Answer(t testing.TB, db *gorm.DB, questionID, authorID int, body string) models.Answer {
	t.Helper()
	a := models.Answer{Body: body, QuestionID: questionID, AuthorID: authorID}
	create(t, db, &a)
	return a
}

func Tag(t testing.TB, db *gorm.DB, name string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name}
	create(t, db, &tag)
	return tag
}

func Tagged(t testing.TB, db *gorm.DB, questionID, tagID int) {
	t.Helper()
	create(t, db, &models.QuestionTag{QuestionID: questionID, TagID: tagID})
}

func Vote(t testing.TB, db *gorm.DB, answerID, userID, voteType int) {
	t.Helper()
	create(t, db, &models.AnswerVote{AnswerID: answerID, UserID: userID, VoteType: voteType})
}

// Count returns the number of rows of model matching the optional condition.
func Count(t testing.TB, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}
