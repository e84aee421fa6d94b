// Package tags maintains tag membership: normalized find-or-create of tags,
// replace-all association of tags with a question, and tag-scoped listings.
package tags

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/qa-forum/backend/internal/aggregate"
	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/database"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

// MaxNameLength matches the width of tags.name.
const MaxNameLength = 100

type Manager struct {
	db     *gorm.DB
	mapper *aggregate.Mapper
	cache  Cache
	inTx   bool
}

// NewManager builds a manager. A nil cache disables caching.
func NewManager(db *gorm.DB, mapper *aggregate.Mapper, cache Cache) *Manager {
	if cache == nil {
		cache = NoopCache()
	}
	return &Manager{db: db, mapper: mapper, cache: cache}
}

// WithTx binds the manager to an open transaction. The caller must call
// Invalidate once the transaction has committed.
func (m *Manager) WithTx(tx *gorm.DB) *Manager {
	return &Manager{db: tx, mapper: m.mapper.WithTx(tx), cache: m.cache, inTx: true}
}

// Invalidate drops the cached tag index.
func (m *Manager) Invalidate(ctx context.Context) {
	m.cache.Invalidate(ctx)
}

func (m *Manager) changed(ctx context.Context) {
	if !m.inTx {
		m.cache.Invalidate(ctx)
	}
}

// NormalizeName trims and lower-cases a tag name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindOrCreateTags resolves names to tag ids in input order, creating the
// missing ones. Blank names are skipped; names equal after normalization
// resolve to the same id.
func (m *Manager) FindOrCreateTags(ctx context.Context, names []string) ([]int, error) {
	db := m.db.WithContext(ctx)
	ids := make([]int, 0, len(names))
	resolved := make(map[string]int, len(names))
	created := false

	for _, raw := range names {
		name := NormalizeName(raw)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return nil, apperror.NewValidationError(
				fmt.Sprintf("tag %q is longer than %d characters", name, MaxNameLength), nil)
		}
		if id, ok := resolved[name]; ok {
			ids = append(ids, id)
			continue
		}

		id, isNew, err := findOrCreate(db, name)
		if err != nil {
			return nil, err
		}
		created = created || isNew
		resolved[name] = id
		ids = append(ids, id)
	}

	if created {
		m.changed(ctx)
	}
	return ids, nil
}

// findOrCreate inserts with ON CONFLICT DO NOTHING and re-reads, so two
// writers racing on the same new name both end up with the winner's row.
func findOrCreate(db *gorm.DB, name string) (int, bool, error) {
	var tag models.Tag
	err := db.Where("name = ?", name).Take(&tag).Error
	if err == nil {
		return tag.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, apperror.NewDatabaseError("failed to look up tag", err)
	}

	tag = models.Tag{Name: name}
	res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&tag)
	if res.Error != nil {
		return 0, false, apperror.NewDatabaseError("failed to create tag", res.Error)
	}

	tag = models.Tag{}
	if err := db.Where("name = ?", name).Take(&tag).Error; err != nil {
		return 0, false, apperror.NewDatabaseError("failed to read back tag", err)
	}
	return tag.ID, res.RowsAffected > 0, nil
}

// SetQuestionTags makes tagIDs the complete tag set of questionID.
func (m *Manager) SetQuestionTags(ctx context.Context, questionID int, tagIDs []int) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Question{}).Where("id = ?", questionID).Count(&n).Error; err != nil {
			return apperror.NewDatabaseError("failed to look up question", err)
		}
		if n == 0 {
			return apperror.NewNotFoundError("question not found", nil)
		}

		if err := tx.Where("question_id = ?", questionID).Delete(&models.QuestionTag{}).Error; err != nil {
			return apperror.NewDatabaseError("failed to clear question tags", err)
		}

		rows := make([]models.QuestionTag, 0, len(tagIDs))
		seen := make(map[int]bool, len(tagIDs))
		for _, id := range tagIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			rows = append(rows, models.QuestionTag{QuestionID: questionID, TagID: id})
		}
		if len(rows) == 0 {
			return nil
		}

		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rows).Error
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return apperror.NewValidationError("unknown tag", err)
			}
			if database.IsUniqueViolation(err) {
				return apperror.NewValidationError("duplicate tag association", err)
			}
			return apperror.NewDatabaseError("failed to attach tags", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.changed(ctx)
	return nil
}

// ListQuestionsForTag returns a page of the questions carrying tagName.
func (m *Manager) ListQuestionsForTag(ctx context.Context, tagName string, p views.Pagination) (*views.TagQuestions, error) {
	name := NormalizeName(tagName)

	var tag models.Tag
	err := m.db.WithContext(ctx).Where("name = ?", name).Take(&tag).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NewNotFoundError("tag not found", err)
		}
		return nil, apperror.NewDatabaseError("failed to look up tag", err)
	}

	page, err := m.mapper.ListQuestions(ctx, aggregate.QuestionFilter{TagID: tag.ID}, p)
	if err != nil {
		return nil, err
	}
	return &views.TagQuestions{
		Tag:       views.TagRef{ID: tag.ID, Name: tag.Name},
		Paginated: page,
	}, nil
}

// ListTags returns every tag with its question count, ordered by name.
func (m *Manager) ListTags(ctx context.Context) ([]views.TagView, error) {
	index, gen, ok := m.cache.GetTagIndex(ctx)
	if ok {
		return index, nil
	}

	index = []views.TagView{}
	err := m.db.WithContext(ctx).Raw(`
		SELECT t.id, t.name, COUNT(qt.question_id) AS question_count
		FROM tags t
		LEFT JOIN question_tags qt ON qt.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.name ASC`).
		Scan(&index).Error
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tags", err)
	}
	if index == nil {
		index = []views.TagView{}
	}

	m.cache.SetTagIndex(ctx, gen, index)
	return index, nil
}
