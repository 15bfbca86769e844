package server

import (
	"context"
	"math/rand"
	"testing"

	"vayam/models"
	"vayam/participation"
	"vayam/repository"
	"vayam/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSessionDispatchWritesThroughLedger drives a full first pass with the
// async dispatcher writing through the real vote repository, then checks the
// ledger, the denormalized tallies and the participation stats all agree.
func TestSessionDispatchWritesThroughLedger(t *testing.T) {
	_, db := setupTestServer(t)
	_, voter, conv, comments := seedConversation(t, db)

	ctx := context.Background()
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	stored, err := commentRepo.ListByConversation(ctx, conv.ZID)
	require.NoError(t, err)
	require.Len(t, stored, len(comments))

	snapshots := make([]session.Comment, len(stored))
	for i := range stored {
		snapshots[i] = session.Snapshot(stored[i], voter.UID)
	}

	sess := session.New(conv.ZID, snapshots, 0, rand.New(rand.NewSource(11)))
	d := session.NewDispatcher(sess, voteWriterAdapter{votes: voteRepo}, voter.UID, nil)

	values := []int{models.VoteAgree, models.VoteDisagree, models.VoteAgree}
	for _, v := range values {
		require.NoError(t, d.CastVote(ctx, v))
	}
	d.Wait()

	d.Session(func(s *session.Session) {
		assert.Equal(t, session.Completed, s.Phase(), "voting on every comment completes the pass")
	})

	// One ledger row per comment, none rolled back.
	var rows int64
	require.NoError(t, db.Model(&models.Vote{}).Where("uid = ? AND zid = ?", voter.UID, conv.ZID).Count(&rows).Error)
	assert.EqualValues(t, len(comments), rows)

	// The denormalized tallies add up to one vote per comment.
	refreshed, err := commentRepo.ListByConversation(ctx, conv.ZID)
	require.NoError(t, err)
	likes, dislikes := 0, 0
	for _, cm := range refreshed {
		assert.Equal(t, 1, cm.LikeCount+cm.DislikeCount+cm.NeutralCount, "comment %d has exactly one tallied vote", cm.TID)
		likes += cm.LikeCount
		dislikes += cm.DislikeCount
	}
	assert.Equal(t, 2, likes)
	assert.Equal(t, 1, dislikes)

	// The accountant sees a fully participated conversation.
	acct := participation.NewAccountant(commentRepo)
	stats, err := acct.ComputeStats(ctx, voter.UID, conv.ZID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.SkippedCount)
	assert.InDelta(t, 100.0, stats.ParticipationPercentage, 0.001)
}

// TestSessionDispatchRollsBackOverwriteOnClosedStore exercises the failure
// path over the real adapter: a vote whose durable write fails is rolled back
// locally while the cursor stays advanced.
func TestSessionDispatchRollsBackOverwriteOnClosedStore(t *testing.T) {
	_, db := setupTestServer(t)
	_, voter, conv, _ := seedConversation(t, db)

	ctx := context.Background()
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	stored, err := commentRepo.ListByConversation(ctx, conv.ZID)
	require.NoError(t, err)
	snapshots := make([]session.Comment, len(stored))
	for i := range stored {
		snapshots[i] = session.Snapshot(stored[i], voter.UID)
	}

	sess := session.New(conv.ZID, snapshots, 0, rand.New(rand.NewSource(11)))
	d := session.NewDispatcher(sess, voteWriterAdapter{votes: voteRepo}, voter.UID, nil)

	// Close the underlying store so the durable write fails.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	require.NoError(t, d.CastVote(ctx, models.VoteAgree))
	d.Wait()

	d.Session(func(s *session.Session) {
		assert.Equal(t, 1, s.Viewed(), "the cursor is never rewound by a failed write")
	})

	// The optimistic tally was rolled back on every snapshot.
	totalLikes := 0
	for i := range snapshots {
		totalLikes += snapshots[i].LikeCount
	}
	assert.Zero(t, totalLikes, "rolled-back vote leaves no local tally")
}
