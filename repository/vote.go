package repository

import (
	"context"
	"errors"
	"time"

	"vayam/models"

	"gorm.io/gorm"
)

// VoteStatus distinguishes a first vote from an overwrite.
type VoteStatus string

const (
	VoteCreated VoteStatus = "created"
	VoteUpdated VoteStatus = "updated"
)

// VoteResult is returned by Submit with the fresh denormalized tallies.
type VoteResult struct {
	Status  VoteStatus      `json:"status"`
	Vote    *models.Vote    `json:"vote"`
	Comment *models.Comment `json:"comment"`
}

// VoteRepository is the vote ledger: one current vote per (uid, tid).
type VoteRepository interface {
	// Submit durably records or overwrites a single vote and recomputes the
	// comment-level and conversation-level tallies from the ledger, all in
	// one transaction so concurrent voters never observe a lost update.
	//
	// Precondition failures, in check order: conversation missing (NotFound),
	// comment missing (NotFound), comment in a different conversation
	// (Mismatch), same-value resubmission (DuplicateVote, no mutation).
	Submit(ctx context.Context, uid, zid, tid uint, value int) (*VoteResult, error)
	// ListByUser returns the user's current votes within one conversation.
	ListByUser(ctx context.Context, uid, zid uint) ([]models.Vote, error)
	// CountByValue aggregates the ledger for one comment.
	CountByValue(ctx context.Context, tid uint) (like, dislike, neutral int64, err error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Submit(ctx context.Context, uid, zid, tid uint, value int) (*VoteResult, error) {
	if !models.ValidVoteValue(value) {
		return nil, models.NewValidationError("Vote must be between -1 and 1")
	}

	var result VoteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.First(&conv, "zid = ?", zid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("conversation", zid)
			}
			return err
		}

		var comment models.Comment
		if err := tx.First(&comment, "tid = ?", tid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("comment", tid)
			}
			return err
		}
		if comment.ZID != zid {
			return models.NewMismatchError(tid, zid)
		}

		// Lazy participant upsert: the only side effect allowed before the
		// vote itself is validated.
		participant, err := findOrCreateParticipant(tx, uid, zid)
		if err != nil {
			return err
		}

		var existing models.Vote
		err = tx.Where("uid = ? AND tid = ?", uid, tid).First(&existing).Error
		switch {
		case err == nil:
			if existing.Value == value {
				return models.NewDuplicateVoteError()
			}
			existing.Value = value
			if err := tx.Model(&models.Vote{}).
				Where("id = ?", existing.ID).
				Updates(map[string]any{"vote": value, "updated_at": time.Now()}).Error; err != nil {
				return err
			}
			result.Status = VoteUpdated
			result.Vote = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				ZID:   zid,
				TID:   tid,
				UID:   uid,
				PID:   participant.PID,
				Value: value,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Participant{}).
				Where("pid = ?", participant.PID).
				Update("vote_count", gorm.Expr("vote_count + 1")).Error; err != nil {
				return err
			}
			result.Status = VoteCreated
			result.Vote = &vote
		default:
			return err
		}

		if err := tx.Model(&models.Participant{}).
			Where("pid = ?", participant.PID).
			Update("last_interaction", time.Now().UnixMilli()).Error; err != nil {
			return err
		}

		if err := recountCommentTallies(tx, &comment); err != nil {
			return err
		}
		if err := recountConversationTallies(tx, zid); err != nil {
			return err
		}

		result.Comment = &comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *voteRepository) ListByUser(ctx context.Context, uid, zid uint) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("uid = ? AND zid = ?", uid, zid).
		Find(&votes).Error
	return votes, err
}

func (r *voteRepository) CountByValue(ctx context.Context, tid uint) (like, dislike, neutral int64, err error) {
	return countVotes(r.db.WithContext(ctx), "tid = ?", tid)
}

// countVotes aggregates the ledger rows matching cond into per-value buckets.
func countVotes(tx *gorm.DB, cond string, arg any) (like, dislike, neutral int64, err error) {
	type bucket struct {
		Vote  int
		Count int64
	}
	var buckets []bucket
	err = tx.Model(&models.Vote{}).
		Select("vote, COUNT(*) as count").
		Where(cond, arg).
		Group("vote").
		Scan(&buckets).Error
	if err != nil {
		return 0, 0, 0, err
	}
	for _, b := range buckets {
		switch b.Vote {
		case models.VoteAgree:
			like = b.Count
		case models.VoteDisagree:
			dislike = b.Count
		case models.VoteNeutral:
			neutral = b.Count
		}
	}
	return like, dislike, neutral, nil
}

// recountCommentTallies rewrites the comment's denormalized counters from the
// ledger and refreshes the in-memory copy.
func recountCommentTallies(tx *gorm.DB, comment *models.Comment) error {
	like, dislike, neutral, err := countVotes(tx, "tid = ?", comment.TID)
	if err != nil {
		return err
	}
	comment.LikeCount = int(like)
	comment.DislikeCount = int(dislike)
	comment.NeutralCount = int(neutral)
	return tx.Model(&models.Comment{}).
		Where("tid = ?", comment.TID).
		Updates(map[string]any{
			"like_count":    like,
			"dislike_count": dislike,
			"neutral_count": neutral,
		}).Error
}

func recountConversationTallies(tx *gorm.DB, zid uint) error {
	like, dislike, neutral, err := countVotes(tx, "zid = ?", zid)
	if err != nil {
		return err
	}
	return tx.Model(&models.Conversation{}).
		Where("zid = ?", zid).
		Updates(map[string]any{
			"like_count":    like,
			"dislike_count": dislike,
			"neutral_count": neutral,
		}).Error
}
