package repository

import (
	"context"
	"errors"

	"vayam/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, tid uint) (*models.Comment, error)
	// ListByConversation returns every comment of a conversation with its
	// votes preloaded, in creation order.
	ListByConversation(ctx context.Context, zid uint) ([]*models.Comment, error)
	// ListSkipped returns the active comments of a conversation with no vote
	// by uid, in creation order.
	ListSkipped(ctx context.Context, uid, zid uint) ([]*models.Comment, error)
	CountActive(ctx context.Context, zid uint) (int64, error)
	CountByConversation(ctx context.Context, zid uint) (int64, error)
	// SetFlag updates the flag status and reason of one comment.
	SetFlag(ctx context.Context, tid uint, status, reason string) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, tid uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, "tid = ?", tid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("comment", tid)
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByConversation(ctx context.Context, zid uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Votes").
		Where("zid = ?", zid).
		Order("created_at ASC, tid ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListSkipped(ctx context.Context, uid, zid uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("zid = ? AND active = ?", zid, true).
		Where("tid NOT IN (?)", r.db.Model(&models.Vote{}).
			Select("tid").
			Where("uid = ? AND zid = ?", uid, zid)).
		Order("created_at ASC, tid ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountActive(ctx context.Context, zid uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("zid = ? AND active = ?", zid, true).
		Count(&n).Error
	return n, err
}

func (r *commentRepository) CountByConversation(ctx context.Context, zid uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("zid = ?", zid).
		Count(&n).Error
	return n, err
}

func (r *commentRepository) SetFlag(ctx context.Context, tid uint, status, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("tid = ?", tid).
		Updates(map[string]any{"flag_status": status, "flag_reason": reason}).Error
}
