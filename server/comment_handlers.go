package server

import (
	"fmt"
	"strconv"

	"vayam/cache"
	"vayam/models"
	"vayam/observability"
	"vayam/validation"

	"github.com/gofiber/fiber/v2"
)

// SubmitComment authors a new comment into a conversation. The five-comment
// viewing gate lives in the session layer; this endpoint deliberately does
// not re-check it.
func (s *Server) SubmitComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)

	var req struct {
		ZID    uint   `json:"zid"`
		Text   string `json:"txt"`
		IsSeed bool   `json:"is_seed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if req.ZID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Conversation ID is required"))
	}
	if err := validation.CommentText(req.Text); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if _, err := s.convRepo.GetByID(ctx, req.ZID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	participant, err := s.participantRepo.FindOrCreate(ctx, uid, req.ZID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	comment := &models.Comment{
		ZID:        req.ZID,
		PID:        participant.PID,
		UID:        uid,
		Text:       req.Text,
		IsSeed:     req.IsSeed,
		Active:     true,
		FlagStatus: models.FlagRejected,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.participantRepo.Touch(ctx, participant.PID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	total, err := s.commentRepo.CountByConversation(ctx, req.ZID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("zid = ?", req.ZID).
		Update("comments_count", total).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(ctx, conversationListCacheKey)
	observability.CommentsCreated.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"participant":         participant,
			"comment":             comment,
			"total_comment_count": total,
		},
	})
}

// GetSkippedComments is the participation accountant's read: the active
// comments the caller has never voted on plus progress counters.
func (s *Server) GetSkippedComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)

	var zid uint
	if _, err := fmt.Sscan(c.Query("zid"), &zid); err != nil || zid == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Valid conversation ID (zid) is required"))
	}

	conv, err := s.convRepo.GetByID(ctx, zid)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	stats, err := s.accountant.ComputeStats(ctx, uid, zid)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"conversation": conv,
			"stats": fiber.Map{
				"skippedCommentsCount":    stats.SkippedCount,
				"totalCommentsCount":      stats.TotalCount,
				"participationPercentage": strconv.FormatFloat(stats.ParticipationPercentage, 'f', 2, 64),
			},
			"skippedComments": stats.SkippedComments,
		},
	})
}
