// Package moderation implements the comment flag lifecycle: the conversation
// owner moves a comment into pending review, three parties are notified, and
// an external admin process later resolves the flag to hidden or dismissed.
package moderation

import (
	"context"
	"log/slog"
	"strings"

	"vayam/models"
	"vayam/notifications"
	"vayam/observability"
	"vayam/repository"
)

// Reasons is the canonical set offered to owners. "Other" permits free text;
// any non-empty reason is accepted server-side.
var Reasons = []string{
	"Spam or advertising",
	"Harassment or hate speech",
	"Misinformation",
	"Off-topic or irrelevant",
	"Other",
}

// Recipient records one intended notification target of a flag.
type Recipient struct {
	Role      string `json:"role"` // "author", "owner" or "admin"
	Email     string `json:"email"`
	UserID    uint   `json:"uid,omitempty"`
	Delivered bool   `json:"delivered"`
}

// Result is the outcome of a flag operation: the updated comment and the
// fan-out list. Recipients are reported even when a delivery fails; the
// state change never depends on notification success.
type Result struct {
	Comment    *models.Comment `json:"comment"`
	Recipients []Recipient     `json:"notificationsSent"`
}

// Service coordinates flag-state transitions and the notification fan-out.
type Service struct {
	comments      repository.CommentRepository
	conversations repository.ConversationRepository
	users         repository.UserRepository
	sender        notifications.Sender
	adminEmail    string
	logger        *slog.Logger
}

// NewService wires the flag workflow.
func NewService(
	comments repository.CommentRepository,
	conversations repository.ConversationRepository,
	users repository.UserRepository,
	sender notifications.Sender,
	adminEmail string,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		comments:      comments,
		conversations: conversations,
		users:         users,
		sender:        sender,
		adminEmail:    adminEmail,
		logger:        logger,
	}
}

// FlagComment moves a comment into pending review on behalf of actingUID.
// Only the conversation owner may flag, only from the unflagged states, and
// a reason is required. The UI hides the flag action outside those states;
// everything is still re-checked here rather than trusted.
func (s *Service) FlagComment(ctx context.Context, actingUID, tid uint, reason string) (*Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewValidationError("flag reason is required")
	}

	comment, err := s.comments.GetByID(ctx, tid)
	if err != nil {
		return nil, err
	}
	conv, err := s.conversations.GetByID(ctx, comment.ZID)
	if err != nil {
		return nil, err
	}
	if conv.Owner != actingUID {
		return nil, models.NewAuthorizationError("Only conversation owner can flag comments")
	}
	if !comment.Flaggable() {
		return nil, models.NewValidationError("comment is already flagged or under review")
	}

	if err := s.comments.SetFlag(ctx, tid, models.FlagPending, reason); err != nil {
		return nil, err
	}
	comment.FlagStatus = models.FlagPending
	comment.FlagReason = reason
	observability.FlagsRaised.Inc()

	// Fan-out is fire-and-forget with respect to the state change: a failed
	// delivery is logged and reported, never rolled back.
	recipients := s.notify(ctx, comment, conv, reason)

	return &Result{Comment: comment, Recipients: recipients}, nil
}

func (s *Service) notify(ctx context.Context, comment *models.Comment, conv *models.Conversation, reason string) []Recipient {
	fc := notifications.FlagContext{
		CommentText: comment.Text,
		CommentID:   comment.TID,
		Topic:       conv.Topic,
		Reason:      reason,
		AdminEmail:  s.adminEmail,
	}

	if author, err := s.users.GetByID(ctx, comment.UID); err == nil {
		fc.AuthorName = author.Name
		if fc.AuthorName == "" {
			fc.AuthorName = author.Username
		}
		fc.AuthorEmail = author.Email
		fc.AuthorUserID = author.UID
	} else {
		s.logger.Warn("flag notice: comment author lookup failed",
			slog.Uint64("uid", uint64(comment.UID)), slog.String("error", err.Error()))
	}
	if owner, err := s.users.GetByID(ctx, conv.Owner); err == nil {
		fc.OwnerName = owner.Name
		if fc.OwnerName == "" {
			fc.OwnerName = owner.Username
		}
		fc.OwnerEmail = owner.Email
		fc.OwnerUserID = owner.UID
	} else {
		s.logger.Warn("flag notice: conversation owner lookup failed",
			slog.Uint64("uid", uint64(conv.Owner)), slog.String("error", err.Error()))
	}

	targets := []struct {
		role   string
		notice notifications.Notice
	}{
		{"author", notifications.AuthorNotice(fc)},
		{"owner", notifications.OwnerNotice(fc)},
		{"admin", notifications.AdminNotice(fc)},
	}

	recipients := make([]Recipient, 0, len(targets))
	for _, t := range targets {
		r := Recipient{Role: t.role, Email: t.notice.Recipient, UserID: t.notice.UserID}
		if err := s.sender.Send(ctx, t.notice); err != nil {
			observability.NotificationFailures.WithLabelValues(t.role).Inc()
			s.logger.Warn("flag notice delivery failed",
				slog.String("role", t.role), slog.String("error", err.Error()))
		} else {
			r.Delivered = true
		}
		recipients = append(recipients, r)
	}
	return recipients
}
