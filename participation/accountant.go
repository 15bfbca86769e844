// Package participation derives per-user voting progress inside a
// conversation: which active comments the user has never voted on, and the
// resulting participation percentage. Pure reads, no side effects.
package participation

import (
	"context"
	"math"

	"vayam/models"
	"vayam/repository"
)

// Stats summarizes a user's progress through one conversation.
type Stats struct {
	SkippedComments []*models.Comment `json:"skippedComments"`
	SkippedCount    int               `json:"skippedCommentsCount"`
	TotalCount      int               `json:"totalCommentsCount"`
	// ParticipationPercentage is ((total-skipped)/total)*100 rounded to two
	// decimals, and 0 when the conversation has no active comments.
	ParticipationPercentage float64 `json:"participationPercentage"`
}

// Complete reports whether the user has voted on every active comment.
func (s Stats) Complete() bool {
	return s.TotalCount > 0 && s.SkippedCount == 0
}

// Started reports whether the user has voted on at least one active comment.
func (s Stats) Started() bool {
	return s.ParticipationPercentage > 0
}

// Accountant computes participation stats from the comment store and the
// vote ledger.
type Accountant struct {
	comments repository.CommentRepository
}

// NewAccountant creates an accountant over the given comment repository.
func NewAccountant(comments repository.CommentRepository) *Accountant {
	return &Accountant{comments: comments}
}

// ComputeStats returns the skipped comments (creation order) and counters for
// one (uid, zid) pair. Idempotent: safe to call repeatedly.
func (a *Accountant) ComputeStats(ctx context.Context, uid, zid uint) (Stats, error) {
	skipped, err := a.comments.ListSkipped(ctx, uid, zid)
	if err != nil {
		return Stats{}, err
	}
	total, err := a.comments.CountActive(ctx, zid)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		SkippedComments: skipped,
		SkippedCount:    len(skipped),
		TotalCount:      int(total),
	}
	if total > 0 {
		pct := (float64(stats.TotalCount-stats.SkippedCount) / float64(stats.TotalCount)) * 100
		stats.ParticipationPercentage = math.Round(pct*100) / 100
	}
	return stats, nil
}
