// Package repository contains data access interfaces and their GORM implementations.
package repository

import (
	"context"
	"time"

	"vayam/models"

	"gorm.io/gorm"
)

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	// FindOrCreate returns the participant row for (uid, zid), creating it on
	// first contact. Creation is the only implicit side effect the vote and
	// comment paths are allowed before validating their own payloads.
	FindOrCreate(ctx context.Context, uid, zid uint) (*models.Participant, error)
	Touch(ctx context.Context, pid uint) error
	CountByConversation(ctx context.Context, zid uint) (int64, error)
}

type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) FindOrCreate(ctx context.Context, uid, zid uint) (*models.Participant, error) {
	return findOrCreateParticipant(r.db.WithContext(ctx), uid, zid)
}

func (r *participantRepository) Touch(ctx context.Context, pid uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("pid = ?", pid).
		Update("last_interaction", time.Now().UnixMilli()).Error
}

func (r *participantRepository) CountByConversation(ctx context.Context, zid uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("zid = ?", zid).
		Count(&n).Error
	return n, err
}

// findOrCreateParticipant is shared with the transactional vote path so the
// lazy upsert participates in the caller's transaction.
func findOrCreateParticipant(tx *gorm.DB, uid, zid uint) (*models.Participant, error) {
	participant := models.Participant{
		UID:             uid,
		ZID:             zid,
		LastInteraction: time.Now().UnixMilli(),
	}
	err := tx.Where(models.Participant{UID: uid, ZID: zid}).
		FirstOrCreate(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}
