package session

import (
	"math/rand"
	"sort"
	"testing"

	"vayam/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// testComments builds n visible comments with TIDs 1..n in conversation 1.
func testComments(n int) []Comment {
	comments := make([]Comment, n)
	for i := range comments {
		comments[i] = Comment{
			TID:        uint(i + 1),
			ZID:        1,
			Text:       "statement",
			FlagStatus: models.FlagRejected,
		}
	}
	return comments
}

func TestShuffleVisibleIsPermutationOfVisible(t *testing.T) {
	comments := testComments(6)
	comments[1].FlagStatus = models.FlagFlagged
	comments[4].FlagStatus = models.FlagAccepted

	rng := rand.New(rand.NewSource(42))
	order := shuffleVisible(comments, rng)

	require.Len(t, order, 4)
	sorted := append([]int(nil), order...)
	sort.Ints(sorted)
	assert.Equal(t, []int{0, 2, 3, 5}, sorted, "order must be exactly the visible indices")
}

func TestShuffleVisibleUniformPositions(t *testing.T) {
	const n = 4
	const trials = 6000
	comments := testComments(n)
	rng := rand.New(rand.NewSource(99))

	// counts[i][p]: how often comment i landed at position p.
	var counts [n][n]int
	for trial := 0; trial < trials; trial++ {
		order := shuffleVisible(comments, rng)
		require.Len(t, order, n)
		for pos, idx := range order {
			counts[idx][pos]++
		}
	}

	// A uniform shuffle puts each comment at each position trials/n times.
	// 10% tolerance is over six standard deviations at this sample size.
	expected := float64(trials) / n
	for idx := 0; idx < n; idx++ {
		for pos := 0; pos < n; pos++ {
			assert.InDelta(t, expected, float64(counts[idx][pos]), expected*0.10,
				"comment %d at position %d", idx, pos)
		}
	}
}

func TestPendingCommentsStayVisibleUnderReview(t *testing.T) {
	comments := testComments(3)
	comments[1].FlagStatus = models.FlagPending

	rng := rand.New(rand.NewSource(6))
	s := New(1, comments, 0, rng)

	assert.Len(t, s.Order(), 3, "a pending flag keeps the comment in the browsing order")
	assert.True(t, comments[1].UnderReview())
	assert.False(t, comments[0].UnderReview())

	hidden := testComments(1)
	hidden[0].FlagStatus = models.FlagFlagged
	assert.False(t, hidden[0].UnderReview(), "a resolved flag is not under review")
}

func TestNewEntryPhase(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want Phase
	}{
		{"first-time user starts voting", 0, FirstPass},
		{"partial progress greets with stats", 66.67, StatsPrompt},
		{"fully participated is done", 100, Completed},
	}

	rng := rand.New(rand.NewSource(1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(1, testComments(3), tt.pct, rng)
			assert.Equal(t, tt.want, s.Phase())
		})
	}
}

func TestVoteAppliesOptimisticallyAndAdvances(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New(1, testComments(3), 0, rng)

	current, ok := s.Current()
	require.True(t, ok)
	firstTID := current.TID

	req, err := s.Vote(models.VoteAgree)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, firstTID, req.TID)
	assert.Equal(t, models.VoteAgree, req.Value)

	// The local copy is rewritten before any durable write happens.
	assert.Equal(t, 1, current.LikeCount)
	require.NotNil(t, current.UserVote)
	assert.Equal(t, models.VoteAgree, *current.UserVote)

	next, ok := s.Current()
	require.True(t, ok, "cursor advances immediately")
	assert.NotEqual(t, firstTID, next.TID)
	assert.Equal(t, 1, s.Viewed())
}

func TestSameValueVoteAdvancesWithoutRequest(t *testing.T) {
	comments := testComments(2)
	comments[0].UserVote = intPtr(models.VoteAgree)
	comments[0].LikeCount = 1
	comments[1].UserVote = intPtr(models.VoteAgree)
	comments[1].LikeCount = 1

	rng := rand.New(rand.NewSource(3))
	s := New(1, comments, 0, rng)

	current, _ := s.Current()
	likeBefore := current.LikeCount

	req, err := s.Vote(models.VoteAgree)
	require.NoError(t, err)
	assert.Nil(t, req, "already satisfied: no write leaves the client")
	assert.Equal(t, likeBefore, current.LikeCount)
	assert.Equal(t, 1, s.Viewed())
}

func TestVoteRejectsInvalidValue(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := New(1, testComments(1), 0, rng)

	_, err := s.Vote(2)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestRollbackRestoresTalliesButNotCursor(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s := New(1, testComments(3), 0, rng)

	current, _ := s.Current()
	votedTID := current.TID

	req, err := s.Vote(models.VoteDisagree)
	require.NoError(t, err)
	require.NotNil(t, req)

	after, ok := s.Current()
	require.True(t, ok)
	viewedAfter := s.Viewed()

	s.Rollback(req)

	// Tallies and the user's vote go back to pre-vote state.
	assert.Equal(t, 0, current.DislikeCount)
	assert.Nil(t, current.UserVote)

	// The cursor never rewinds on write failure.
	still, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, after.TID, still.TID)
	assert.NotEqual(t, votedTID, still.TID)
	assert.Equal(t, viewedAfter, s.Viewed())
}

func TestStaleRollbackIsDropped(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := New(1, testComments(1), 0, rng)

	req1, err := s.Vote(models.VoteAgree)
	require.NoError(t, err)
	require.NotNil(t, req1)

	// A background refresh brings the same comment back (server echoes the
	// recorded vote) and the user changes their mind.
	fresh := testComments(1)
	fresh[0].UserVote = intPtr(models.VoteAgree)
	fresh[0].LikeCount = 1
	s.Reload(fresh, rng)

	req2, err := s.Vote(models.VoteDisagree)
	require.NoError(t, err)
	require.NotNil(t, req2)
	assert.Greater(t, req2.Seq, req1.Seq)

	// The first write fails late; its rollback must not clobber the newer vote.
	s.Rollback(req1)

	assert.Equal(t, 1, fresh[0].DislikeCount)
	require.NotNil(t, fresh[0].UserVote)
	assert.Equal(t, models.VoteDisagree, *fresh[0].UserVote)
}

func TestFirstPassExhaustionRoutesOnLocalSkips(t *testing.T) {
	t.Run("all voted completes", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		s := New(1, testComments(2), 0, rng)

		for i := 0; i < 2; i++ {
			_, err := s.Vote(models.VoteAgree)
			require.NoError(t, err)
		}
		assert.Equal(t, Completed, s.Phase())
	})

	t.Run("skips prompt for review", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		s := New(1, testComments(2), 0, rng)

		require.NoError(t, s.Skip())
		_, err := s.Vote(models.VoteNeutral)
		require.NoError(t, err)
		assert.Equal(t, SkippedDecisionPrompt, s.Phase())
	})
}

func TestResolveSkippedPrompt(t *testing.T) {
	buildPrompted := func(t *testing.T) *Session {
		rng := rand.New(rand.NewSource(9))
		s := New(1, testComments(3), 0, rng)
		require.NoError(t, s.Skip())
		require.NoError(t, s.Skip())
		_, err := s.Vote(models.VoteAgree)
		require.NoError(t, err)
		require.Equal(t, SkippedDecisionPrompt, s.Phase())
		return s
	}

	t.Run("declining completes", func(t *testing.T) {
		s := buildPrompted(t)
		require.NoError(t, s.ResolveSkippedPrompt(false, nil))
		assert.Equal(t, Completed, s.Phase())
	})

	t.Run("accepting reviews skips in creation order", func(t *testing.T) {
		s := buildPrompted(t)
		fresh := testComments(3)
		fresh[2].UserVote = intPtr(models.VoteAgree) // the one voted on

		require.NoError(t, s.ResolveSkippedPrompt(true, fresh))
		assert.Equal(t, SkippedReview, s.Phase())
		assert.Equal(t, []int{0, 1}, s.Order(), "skipped review keeps natural order, no shuffle")

		// Finishing the review completes the session.
		_, err := s.Vote(models.VoteAgree)
		require.NoError(t, err)
		require.NoError(t, s.Skip())
		assert.Equal(t, Completed, s.Phase())
	})

	t.Run("nothing left to review completes immediately", func(t *testing.T) {
		s := buildPrompted(t)
		fresh := testComments(3)
		for i := range fresh {
			fresh[i].UserVote = intPtr(models.VoteAgree)
		}
		require.NoError(t, s.ResolveSkippedPrompt(true, fresh))
		assert.Equal(t, Completed, s.Phase())
	})
}

func TestResolveStatsPrompt(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	t.Run("decline resumes first pass", func(t *testing.T) {
		s := New(1, testComments(3), 50, rng)
		require.Equal(t, StatsPrompt, s.Phase())
		require.NoError(t, s.ResolveStatsPrompt(false, nil))
		assert.Equal(t, FirstPass, s.Phase())
	})

	t.Run("accept starts skipped review", func(t *testing.T) {
		s := New(1, testComments(3), 50, rng)
		fresh := testComments(2)
		require.NoError(t, s.ResolveStatsPrompt(true, fresh))
		assert.Equal(t, SkippedReview, s.Phase())
		assert.Equal(t, []int{0, 1}, s.Order())
	})

	t.Run("rejected outside stats prompt", func(t *testing.T) {
		s := New(1, testComments(3), 0, rng)
		err := s.ResolveStatsPrompt(true, nil)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})
}

func TestCanAddComment(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	t.Run("large conversation gates at five views", func(t *testing.T) {
		s := New(1, testComments(7), 0, rng)
		for i := 0; i < 4; i++ {
			require.NoError(t, s.Skip())
		}
		assert.False(t, s.CanAddComment())
		require.NoError(t, s.Skip())
		assert.True(t, s.CanAddComment())
	})

	t.Run("small conversation gates at every visible comment", func(t *testing.T) {
		comments := testComments(4)
		comments[3].FlagStatus = models.FlagFlagged
		s := New(1, comments, 0, rng)
		for i := 0; i < 2; i++ {
			require.NoError(t, s.Skip())
		}
		assert.False(t, s.CanAddComment())
		require.NoError(t, s.Skip())
		assert.True(t, s.CanAddComment())
	})
}

func TestSnapshotResolvesUserVote(t *testing.T) {
	m := &models.Comment{
		TID:        10,
		ZID:        1,
		Text:       "statement",
		FlagStatus: models.FlagRejected,
		LikeCount:  2,
		Votes: []models.Vote{
			{TID: 10, UID: 5, Value: models.VoteAgree},
			{TID: 10, UID: 6, Value: models.VoteDisagree},
		},
	}

	c := Snapshot(m, 6)
	require.NotNil(t, c.UserVote)
	assert.Equal(t, models.VoteDisagree, *c.UserVote)

	stranger := Snapshot(m, 99)
	assert.Nil(t, stranger.UserVote)
}
