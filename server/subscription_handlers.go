package server

import (
	"fmt"

	"vayam/models"

	"github.com/gofiber/fiber/v2"
)

// GetSubscription reports whether the caller subscribed to a conversation.
func (s *Server) GetSubscription(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)

	var zid uint
	if _, err := fmt.Sscan(c.Query("zid"), &zid); err != nil || zid == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Missing zid"))
	}

	subscribed, err := s.subRepo.IsSubscribed(ctx, uid, zid)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"isSubscribed": subscribed})
}

// SetSubscription toggles the caller's notification preference for a
// conversation. Dispatch of the notifications themselves happens elsewhere.
func (s *Server) SetSubscription(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)

	var req struct {
		ZID       uint  `json:"zid"`
		Subscribe *bool `json:"subscribe"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if req.ZID == 0 || req.Subscribe == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("zid (number) and subscribe (boolean) required"))
	}

	if _, err := s.convRepo.GetByID(ctx, req.ZID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if err := s.subRepo.Set(ctx, uid, req.ZID, *req.Subscribe); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"success": true, "subscribed": *req.Subscribe})
}
