package server

import (
	"fmt"

	"vayam/models"
	"vayam/moderation"

	"github.com/gofiber/fiber/v2"
)

// GetFlagReasons returns the canonical flag reasons offered to owners.
func (s *Server) GetFlagReasons(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": moderation.Reasons})
}

// FlagComment moves a comment into the moderation pipeline on behalf of the
// conversation owner and reports the notification fan-out.
func (s *Server) FlagComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)

	var tid uint
	if _, err := fmt.Sscan(c.Params("tid"), &tid); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid comment ID"))
	}

	var req struct {
		Reason string `json:"flag_reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	result, err := s.flags.FlagComment(ctx, uid, tid, req.Reason)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}
