package server

import (
	"fmt"
	"time"

	"vayam/cache"
	"vayam/models"

	"github.com/gofiber/fiber/v2"
)

const conversationListCacheKey = "conversations:active"

// ConversationView is a conversation plus the requester-specific comment data.
type ConversationView struct {
	models.Conversation
	ParticipantCount int               `json:"participant_count"`
	Comments         []*models.Comment `json:"comments"`
}

// GetConversation returns a conversation with all comments, their votes and
// the requesting user's own vote on each.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)

	var zid uint
	if _, err := fmt.Sscan(c.Params("zid"), &zid); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid conversation ID"))
	}

	conv, err := s.convRepo.GetByID(ctx, zid)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	comments, err := s.commentRepo.ListByConversation(ctx, zid)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// Resolve the requester's current vote per comment from the preloaded
	// vote lists.
	for _, comment := range comments {
		for i := range comment.Votes {
			if comment.Votes[i].UID == uid {
				comment.UserVote = &comment.Votes[i]
				break
			}
		}
	}

	participantCount, err := s.participantRepo.CountByConversation(ctx, zid)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	conv.CommentsCount = len(comments)
	view := ConversationView{
		Conversation:     *conv,
		ParticipantCount: int(participantCount),
		Comments:         comments,
	}

	return c.JSON(fiber.Map{"success": true, "data": view})
}

// ListConversations returns active conversations (metadata only), cache-aside
// from Redis with a short TTL.
func (s *Server) ListConversations(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var convs []*models.Conversation
	err := cache.CacheAside(ctx, conversationListCacheKey, &convs, 30*time.Second, func() error {
		var err error
		convs, err = s.convRepo.ListActive(ctx, 100, 0)
		return err
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": convs})
}

// CreateConversation opens a new conversation owned by the caller.
func (s *Server) CreateConversation(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)

	var req struct {
		Topic       string `json:"topic"`
		Description string `json:"description"`
		IsPublic    *bool  `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if req.Topic == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Topic is required"))
	}

	conv := &models.Conversation{
		Topic:       req.Topic,
		Description: req.Description,
		Owner:       uid,
		IsActive:    true,
		IsPublic:    req.IsPublic == nil || *req.IsPublic,
	}
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(ctx, conversationListCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": conv})
}
