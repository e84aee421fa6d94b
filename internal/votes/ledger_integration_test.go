//go:build integration

package votes_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/qa-forum/backend/internal/database/dbtest"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/votes"
)

func TestConcurrentCastsOnPostgres(t *testing.T) {
	db := dbtest.Postgres(t)
	ctx := context.Background()

	asker := dbtest.User(t, db, "asker")
	q := dbtest.Question(t, db, asker.ID, "race")
	a := dbtest.Answer(t, db, q.ID, asker.ID, "condition")

	const voters = 20
	ids := make([]int, voters)
	for i := range ids {
		ids[i] = dbtest.User(t, db, "voter"+string(rune('a'+i))).ID
	}

	ledger := votes.NewLedger(db)

	// Every voter casts an upvote three times concurrently: each ends up voted.
	var wg sync.WaitGroup
	for _, id := range ids {
		for range 3 {
			wg.Add(1)
			go func(voter int) {
				defer wg.Done()
				_, err := ledger.CastOrToggleVote(ctx, a.ID, voter, 1)
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, int64(1), dbtest.Count(t, db, &models.AnswerVote{}, "answer_id = ? AND user_id = ?", a.ID, id))
	}

	stats, err := ledger.Stats(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, stats.Upvotes)
	assert.Equal(t, voters, stats.Score)

	var stored models.Answer
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.Equal(t, stats.Score, stored.VoteCount)
}
