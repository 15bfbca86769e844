package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"vayam/database"
	"vayam/models"
	"vayam/notifications"
	"vayam/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeSender records notices and fails delivery to selected recipients.
type fakeSender struct {
	mu      sync.Mutex
	sent    []notifications.Notice
	failFor map[string]bool // by recipient email
}

func (f *fakeSender) Send(ctx context.Context, n notifications.Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[n.Recipient] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, n)
	return nil
}

type fixture struct {
	db      *gorm.DB
	service *Service
	sender  *fakeSender
	owner   models.User
	author  models.User
	conv    models.Conversation
	comment models.Comment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	owner := models.User{Username: "owner", Name: "Conversation Owner", Email: "owner@example.com"}
	require.NoError(t, db.Create(&owner).Error)
	author := models.User{Username: "author", Name: "Comment Author", Email: "author@example.com"}
	require.NoError(t, db.Create(&author).Error)

	conv := models.Conversation{Topic: "City budget", Owner: owner.UID, IsActive: true}
	require.NoError(t, db.Create(&conv).Error)

	participant := models.Participant{UID: author.UID, ZID: conv.ZID}
	require.NoError(t, db.Create(&participant).Error)

	comment := models.Comment{
		ZID:        conv.ZID,
		PID:        participant.PID,
		UID:        author.UID,
		Text:       "Buy my course at example.com",
		Active:     true,
		FlagStatus: models.FlagRejected,
	}
	require.NoError(t, db.Create(&comment).Error)

	sender := &fakeSender{failFor: map[string]bool{}}
	service := NewService(
		repository.NewCommentRepository(db),
		repository.NewConversationRepository(db),
		repository.NewUserRepository(db),
		sender,
		"admin@vayam.app",
		nil,
	)
	return &fixture{db: db, service: service, sender: sender, owner: owner, author: author, conv: conv, comment: comment}
}

func (f *fixture) flagStatus(t *testing.T) string {
	t.Helper()
	var comment models.Comment
	require.NoError(t, f.db.First(&comment, "tid = ?", f.comment.TID).Error)
	return comment.FlagStatus
}

func TestFlagCommentByOwner(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.FlagComment(context.Background(), f.owner.UID, f.comment.TID, "Spam or advertising")
	require.NoError(t, err)

	assert.Equal(t, models.FlagPending, result.Comment.FlagStatus)
	assert.Equal(t, "Spam or advertising", result.Comment.FlagReason)
	assert.Equal(t, models.FlagPending, f.flagStatus(t))

	require.Len(t, result.Recipients, 3)
	byRole := map[string]Recipient{}
	for _, r := range result.Recipients {
		byRole[r.Role] = r
	}
	assert.Equal(t, f.author.Email, byRole["author"].Email)
	assert.Equal(t, f.owner.Email, byRole["owner"].Email)
	assert.Equal(t, "admin@vayam.app", byRole["admin"].Email)
	for role, r := range byRole {
		assert.True(t, r.Delivered, "delivery to %s", role)
	}

	assert.Len(t, f.sender.sent, 3)
}

func TestFlagCommentRequiresOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.FlagComment(context.Background(), f.author.UID, f.comment.TID, "Harassment or hate speech")
	require.Error(t, err)
	assert.Equal(t, models.CodeAuthorization, models.ErrorCode(err))

	assert.Equal(t, models.FlagRejected, f.flagStatus(t), "unauthorized flag leaves the comment untouched")
	assert.Empty(t, f.sender.sent, "no notifications for a rejected flag")
}

func TestFlagCommentRequiresReason(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.FlagComment(context.Background(), f.owner.UID, f.comment.TID, "   ")
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	assert.Equal(t, models.FlagRejected, f.flagStatus(t))
}

func TestFlagCommentRejectsAlreadyFlagged(t *testing.T) {
	for _, status := range []string{models.FlagPending, models.FlagFlagged, models.FlagAccepted} {
		t.Run(status, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.db.Model(&models.Comment{}).
				Where("tid = ?", f.comment.TID).
				Update("flag_status", status).Error)

			_, err := f.service.FlagComment(context.Background(), f.owner.UID, f.comment.TID, "Other")
			require.Error(t, err)
			assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
		})
	}
}

func TestFlagCommentMissingComment(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.FlagComment(context.Background(), f.owner.UID, 9999, "Other")
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestFlagCommentSurvivesDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.sender.failFor[f.author.Email] = true

	result, err := f.service.FlagComment(context.Background(), f.owner.UID, f.comment.TID, "Misinformation")
	require.NoError(t, err, "notification failure never blocks the state change")

	assert.Equal(t, models.FlagPending, f.flagStatus(t))

	require.Len(t, result.Recipients, 3, "all intended recipients are reported")
	for _, r := range result.Recipients {
		if r.Role == "author" {
			assert.False(t, r.Delivered)
		} else {
			assert.True(t, r.Delivered)
		}
	}
	assert.Len(t, f.sender.sent, 2)
}
