// Package session implements the per-user voting session: a caller-owned
// state machine that sequences a conversation's comments one at a time,
// applies votes optimistically with rollback on write failure, and tracks
// skip and participation accounting. It holds no durable state of its own;
// a session is rebuilt from server data plus a fresh shuffle on every load.
package session

import (
	"math/rand"

	"vayam/models"
)

// Phase is the session sub-state.
type Phase int

const (
	// Loading is the zero value before server data has arrived.
	Loading Phase = iota
	// FirstPass iterates a shuffled permutation of the visible comments.
	FirstPass
	// StatsPrompt greets a returning user whose participation is strictly
	// between 0% and 100%.
	StatsPrompt
	// SkippedReview iterates, in creation order, the comments the user has
	// never voted on.
	SkippedReview
	// SkippedDecisionPrompt asks whether to review skips after the first
	// pass exhausts naturally.
	SkippedDecisionPrompt
	// Completed is terminal for the session.
	Completed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case FirstPass:
		return "first_pass"
	case StatsPrompt:
		return "stats_prompt"
	case SkippedReview:
		return "skipped_review"
	case SkippedDecisionPrompt:
		return "skipped_decision_prompt"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// commentGate is how many comments a participant must view in the current
// session before authoring their own (or every visible comment, whichever
// is fewer).
const commentGate = 5

// Comment is the session's local snapshot of one comment. The tallies and
// UserVote are a denormalized copy the engine mutates optimistically; the
// ledger remains the source of truth.
type Comment struct {
	TID          uint
	ZID          uint
	Text         string
	IsSeed       bool
	FlagStatus   string
	LikeCount    int
	DislikeCount int
	NeutralCount int
	UserVote     *int
}

// visible mirrors models.Comment.Hidden: flagged and accepted comments are
// excluded from every browsing order; pending ones stay in, marked under
// review by the presentation layer.
func (c *Comment) visible() bool {
	return c.FlagStatus != models.FlagFlagged && c.FlagStatus != models.FlagAccepted
}

// UnderReview reports whether the comment carries a pending flag.
func (c *Comment) UnderReview() bool {
	return c.FlagStatus == models.FlagPending
}

// Snapshot builds a session comment from a stored comment, resolving uid's
// current vote from the preloaded vote list.
func Snapshot(m *models.Comment, uid uint) Comment {
	c := Comment{
		TID:          m.TID,
		ZID:          m.ZID,
		Text:         m.Text,
		IsSeed:       m.IsSeed,
		FlagStatus:   m.FlagStatus,
		LikeCount:    m.LikeCount,
		DislikeCount: m.DislikeCount,
		NeutralCount: m.NeutralCount,
	}
	if m.UserVote != nil {
		v := m.UserVote.Value
		c.UserVote = &v
	} else {
		for i := range m.Votes {
			if m.Votes[i].UID == uid {
				v := m.Votes[i].Value
				c.UserVote = &v
				break
			}
		}
	}
	return c
}

// Request is a durable vote write the caller still has to issue. It carries
// everything needed to roll the optimistic local change back, and a client
// sequence number used to coalesce racing writes (last value wins).
type Request struct {
	ZID   uint
	TID   uint
	Value int
	Seq   uint64

	prev *int
}

// Session sequences one user's pass over one conversation. Not safe for
// concurrent use; Dispatcher serializes access for the async write path.
type Session struct {
	zid      uint
	phase    Phase
	comments []Comment
	order    []int // permutation of indices into comments
	cursor   int
	viewed   int
	seq      uint64
	lastSeq  map[uint]uint64
}

// New builds a session from freshly fetched comments and the user's current
// participation percentage. Visibility filtering and the first-pass shuffle
// happen here; the entry phase follows the stats: 100% complete goes straight
// to Completed, partial participation is greeted with the stats prompt, and a
// first-time user starts the first pass immediately.
func New(zid uint, comments []Comment, participationPct float64, rng *rand.Rand) *Session {
	s := &Session{
		zid:      zid,
		comments: comments,
		lastSeq:  make(map[uint]uint64),
	}
	s.order = shuffleVisible(comments, rng)

	switch {
	case participationPct >= 100:
		s.phase = Completed
	case participationPct > 0:
		s.phase = StatsPrompt
	default:
		s.phase = FirstPass
	}
	return s
}

// Phase returns the current sub-state.
func (s *Session) Phase() Phase { return s.phase }

// Viewed returns how many comments the user has advanced past this session.
func (s *Session) Viewed() int { return s.viewed }

// Current returns the comment under the cursor, if the session is in an
// iterating phase and the order is not exhausted.
func (s *Session) Current() (*Comment, bool) {
	if s.phase != FirstPass && s.phase != SkippedReview {
		return nil, false
	}
	if s.cursor >= len(s.order) {
		return nil, false
	}
	return &s.comments[s.order[s.cursor]], true
}

// Vote applies value to the current comment. A same-value resubmission is
// already satisfied: the cursor advances and no request is returned, so no
// duplicate write ever leaves the client. Otherwise the local copy is
// rewritten optimistically, the cursor advances immediately, and the caller
// receives the durable write to issue. The write's failure path goes through
// Rollback and never touches the cursor.
func (s *Session) Vote(value int) (*Request, error) {
	if !models.ValidVoteValue(value) {
		return nil, models.NewValidationError("Vote must be between -1 and 1")
	}
	current, ok := s.Current()
	if !ok {
		return nil, models.NewValidationError("no comment to vote on")
	}

	if current.UserVote != nil && *current.UserVote == value {
		s.advance()
		return nil, nil
	}

	req := &Request{
		ZID:   s.zid,
		TID:   current.TID,
		Value: value,
	}
	if current.UserVote != nil {
		prev := *current.UserVote
		req.prev = &prev
	}

	current.applyVote(req.prev, &value)

	s.seq++
	req.Seq = s.seq
	s.lastSeq[current.TID] = req.Seq

	s.advance()
	return req, nil
}

// Rollback restores the local copy after a failed write. The cursor stays
// where it is: the user proceeds regardless of transient write failures.
// A rollback for a request that has since been superseded by a newer vote on
// the same comment is dropped (last value wins).
func (s *Session) Rollback(req *Request) {
	if req == nil {
		return
	}
	if s.lastSeq[req.TID] != req.Seq {
		return
	}
	for i := range s.comments {
		if s.comments[i].TID == req.TID {
			s.comments[i].applyVote(&req.Value, req.prev)
			return
		}
	}
}

// Skip advances without recording anything.
func (s *Session) Skip() error {
	if _, ok := s.Current(); !ok {
		return models.NewValidationError("no comment to skip")
	}
	s.advance()
	return nil
}

// advance moves the cursor exactly one position and counts the view. When the
// first pass exhausts naturally, remaining unvoted comments route to the
// skipped-decision prompt; otherwise the session completes.
func (s *Session) advance() {
	s.cursor++
	s.viewed++
	if s.cursor < len(s.order) {
		return
	}
	switch s.phase {
	case FirstPass:
		if s.hasLocalSkips() {
			s.phase = SkippedDecisionPrompt
		} else {
			s.phase = Completed
		}
	case SkippedReview:
		s.phase = Completed
	}
}

func (s *Session) hasLocalSkips() bool {
	for i := range s.comments {
		if s.comments[i].visible() && s.comments[i].UserVote == nil {
			return true
		}
	}
	return false
}

// ResolveStatsPrompt consumes the returning-user prompt. Reviewing skips
// requires the freshly fetched skipped list (creation order, straight from
// the server rather than the stale shuffle); declining resumes the first pass.
func (s *Session) ResolveStatsPrompt(reviewSkipped bool, fresh []Comment) error {
	if s.phase != StatsPrompt {
		return models.NewValidationError("no stats prompt to resolve")
	}
	if reviewSkipped {
		s.beginSkippedReview(fresh)
		return nil
	}
	s.phase = FirstPass
	return nil
}

// ResolveSkippedPrompt consumes the post-first-pass prompt. Declining
// completes the session.
func (s *Session) ResolveSkippedPrompt(continueVoting bool, fresh []Comment) error {
	if s.phase != SkippedDecisionPrompt {
		return models.NewValidationError("no skipped prompt to resolve")
	}
	if continueVoting {
		s.beginSkippedReview(fresh)
		return nil
	}
	s.phase = Completed
	return nil
}

// beginSkippedReview swaps in the fresh skipped list in natural order. New
// skips may have accrued since load, so the stale shuffled list is discarded.
func (s *Session) beginSkippedReview(fresh []Comment) {
	s.comments = fresh
	s.order = s.order[:0]
	for i := range fresh {
		if fresh[i].visible() && fresh[i].UserVote == nil {
			s.order = append(s.order, i)
		}
	}
	s.cursor = 0
	s.phase = SkippedReview
	if len(s.order) == 0 {
		s.phase = Completed
	}
}

// Reload replaces the session data after a background refresh (for example a
// newly authored comment) with a fresh shuffle from the start.
func (s *Session) Reload(comments []Comment, rng *rand.Rand) {
	s.comments = comments
	s.order = shuffleVisible(comments, rng)
	s.cursor = 0
	s.viewed = 0
	s.phase = FirstPass
}

// CanAddComment gates authorship on having viewed at least commentGate
// comments this session, or every visible comment when the conversation is
// smaller than the gate. Enforced here only; the comment endpoint trusts the
// session layer.
func (s *Session) CanAddComment() bool {
	visibleCount := 0
	for i := range s.comments {
		if s.comments[i].visible() {
			visibleCount++
		}
	}
	gate := commentGate
	if visibleCount < gate {
		gate = visibleCount
	}
	return s.viewed >= gate
}

// Order exposes the browsing permutation for inspection.
func (s *Session) Order() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// applyVote replaces the user's local vote, moving one unit between tally
// buckets so the denormalized copy tracks what the ledger will say.
func (c *Comment) applyVote(from, to *int) {
	if from != nil {
		switch *from {
		case models.VoteAgree:
			c.LikeCount--
		case models.VoteDisagree:
			c.DislikeCount--
		case models.VoteNeutral:
			c.NeutralCount--
		}
	}
	if to != nil {
		switch *to {
		case models.VoteAgree:
			c.LikeCount++
		case models.VoteDisagree:
			c.DislikeCount++
		case models.VoteNeutral:
			c.NeutralCount++
		}
		v := *to
		c.UserVote = &v
	} else {
		c.UserVote = nil
	}
}
