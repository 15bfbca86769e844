package server

import (
	"context"

	"vayam/models"
	"vayam/observability"
	"vayam/repository"
	"vayam/validation"

	"github.com/gofiber/fiber/v2"
)

// SubmitVote records or overwrites the caller's vote on one comment. The
// write path validates conversation, comment and comment/conversation
// pairing in order, lazily creates the participant row, rejects same-value
// resubmissions, and recomputes the denormalized tallies atomically with the
// ledger write.
func (s *Server) SubmitVote(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)

	var req struct {
		ZID   uint `json:"zid"`
		TID   uint `json:"tid"`
		Value *int `json:"vote"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if req.ZID == 0 || req.TID == 0 || req.Value == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("zid, tid and vote are required"))
	}
	if err := validation.VoteValue(*req.Value); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	result, err := s.voteRepo.Submit(ctx, uid, req.ZID, req.TID, *req.Value)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	observability.VotesRecorded.WithLabelValues(string(result.Status)).Inc()

	status := fiber.StatusOK
	if result.Status == repository.VoteCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"status":  result.Status,
		"comment": result.Comment,
	})
}

// voteWriterAdapter exposes the vote repository as a session.VoteWriter.
type voteWriterAdapter struct {
	votes repository.VoteRepository
}

func (a voteWriterAdapter) SubmitVote(ctx context.Context, uid, zid, tid uint, value int) error {
	_, err := a.votes.Submit(ctx, uid, zid, tid, value)
	return err
}
