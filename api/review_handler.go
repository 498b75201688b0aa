package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/quizfolkco/rote/pkg/eventstream"
	"github.com/quizfolkco/rote/pkg/kb"
	"github.com/quizfolkco/rote/pkg/registry"
	"github.com/quizfolkco/rote/pkg/review"
	"github.com/quizfolkco/rote/pkg/worker"
)

// ActionRequest is the request body for recording a review outcome.
type ActionRequest struct {
	KnowledgeBase string `json:"kb"`
	ItemID        string `json:"itemId"`
	Outcome       string `json:"outcome"`
}

// handleReviewState returns the current session state for a knowledge base.
func (s *Server) handleReviewState(c *fiber.Ctx) error {
	name := c.Params("kb")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "kb parameter required"})
	}

	h, err := s.registry.Resolve(c.Context(), name)
	if err != nil {
		return s.errorJSON(c, err)
	}

	state, err := h.State(c.Context())
	if err != nil {
		return s.errorJSON(c, err)
	}

	return c.JSON(state)
}

// handleReviewAction records a review outcome for one item, persists the
// updated snapshot, and returns the next session state.
func (s *Server) handleReviewAction(c *fiber.Ctx) error {
	var req ActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.KnowledgeBase == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "kb is required"})
	}
	if req.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "itemId is required"})
	}

	outcome, err := review.ParseOutcome(req.Outcome)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	h, err := s.registry.Resolve(c.Context(), req.KnowledgeBase)
	if err != nil {
		return s.errorJSON(c, err)
	}

	res, err := h.HandleAction(c.Context(), req.ItemID, outcome)
	if err != nil {
		return s.errorJSON(c, err)
	}

	s.publishReview(req.KnowledgeBase, req.ItemID, outcome, res)

	return c.JSON(res)
}

// handleReviewReset discards all review progress for a knowledge base and
// returns the fresh session state.
func (s *Server) handleReviewReset(c *fiber.Ctx) error {
	name := c.Params("kb")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "kb parameter required"})
	}

	h, err := s.registry.Resolve(c.Context(), name)
	if err != nil {
		return s.errorJSON(c, err)
	}

	if err := h.Reset(c.Context()); err != nil {
		return s.errorJSON(c, err)
	}

	state, err := h.State(c.Context())
	if err != nil {
		return s.errorJSON(c, err)
	}

	return c.JSON(state)
}

// handleReviewExport returns the full learning record for a knowledge base.
func (s *Server) handleReviewExport(c *fiber.Ctx) error {
	name := c.Params("kb")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "kb parameter required"})
	}

	h, err := s.registry.Resolve(c.Context(), name)
	if err != nil {
		return s.errorJSON(c, err)
	}

	export, err := h.Export(c.Context())
	if err != nil {
		return s.errorJSON(c, err)
	}

	return c.JSON(export)
}

// publishReview hands a recorded review off to the async publish pool.
// Dropping the event (nil pool, full queue) never affects the response.
func (s *Server) publishReview(name, itemID string, outcome review.Outcome, res review.Result) {
	if s.pool == nil {
		return
	}

	event := eventstream.NewReviewRecordedEvent(name, itemID, outcome.String(), eventstream.ReviewResultMeta{
		TotalMastered:  res.TotalMastered,
		RemainingItems: res.RemainingItems,
		TotalItems:     res.TotalItems,
	})
	s.pool.Enqueue(worker.Job{Event: event})
}

// errorJSON maps a registry or review error onto the right status code.
func (s *Server) errorJSON(c *fiber.Ctx, err error) error {
	var perr *registry.PersistenceError

	switch {
	case errors.Is(err, review.ErrInvalidOutcome):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, review.ErrItemNotFound), errors.Is(err, kb.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case errors.As(err, &perr):
		s.logger.Error("snapshot persistence failed",
			zap.String("kb", perr.Name),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("review operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
}
