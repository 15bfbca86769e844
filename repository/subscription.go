package repository

import (
	"context"

	"vayam/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository toggles notification preferences per (uid, zid).
type SubscriptionRepository interface {
	IsSubscribed(ctx context.Context, uid, zid uint) (bool, error)
	Set(ctx context.Context, uid, zid uint, subscribe bool) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) IsSubscribed(ctx context.Context, uid, zid uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("uid = ? AND zid = ?", uid, zid).
		Count(&n).Error
	return n > 0, err
}

func (r *subscriptionRepository) Set(ctx context.Context, uid, zid uint, subscribe bool) error {
	if subscribe {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Subscription{UID: uid, ZID: zid}).Error
	}
	return r.db.WithContext(ctx).
		Where("uid = ? AND zid = ?", uid, zid).
		Delete(&models.Subscription{}).Error
}
