// Package content owns the write side of questions, answers and comments:
// creation, owner-only edits and cascading deletes, each in one transaction.
package content

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/qa-forum/backend/internal/aggregate"
	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/tags"
)

type Writer struct {
	db     *gorm.DB
	tags   *tags.Manager
	mapper *aggregate.Mapper
}

func NewWriter(db *gorm.DB, tagManager *tags.Manager, mapper *aggregate.Mapper) *Writer {
	return &Writer{db: db, tags: tagManager, mapper: mapper}
}

type ownerRow struct {
	Owner int
}

// ownerOf reads the owning user column of one row in table.
func ownerOf(tx *gorm.DB, table, column string, id int, what string) (int, error) {
	var rows []ownerRow
	query := fmt.Sprintf("SELECT %s AS owner FROM %s WHERE id = ?", column, table)
	if err := tx.Raw(query, id).Scan(&rows).Error; err != nil {
		return 0, apperror.NewDatabaseError("failed to load "+what, err)
	}
	if len(rows) == 0 {
		return 0, apperror.NewNotFoundError(what+" not found", nil)
	}
	return rows[0].Owner, nil
}

func requireOwner(tx *gorm.DB, table, column string, id, userID int, what string) error {
	owner, err := ownerOf(tx, table, column, id, what)
	if err != nil {
		return err
	}
	if owner != userID {
		return apperror.NewForbiddenError(fmt.Sprintf("you can only change your own %s", what), nil)
	}
	return nil
}

func parentExists(tx *gorm.DB, table string, id int, what string) error {
	var n int64
	if err := tx.Table(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return apperror.NewDatabaseError("failed to look up "+what, err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(what+" not found", nil)
	}
	return nil
}
