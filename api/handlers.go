package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// KnowledgeBaseSummary is one entry in the knowledge base listing.
type KnowledgeBaseSummary struct {
	Name           string `json:"name"`
	TotalItems     int    `json:"totalItems"`
	TotalMastered  int    `json:"totalMastered"`
	RemainingItems int    `json:"remainingItems"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListKnowledgeBases returns every known knowledge base with its
// progress counters. Names come from both the catalog and stored snapshots,
// so a knowledge base whose source file was removed still shows up.
func (s *Server) handleListKnowledgeBases(c *fiber.Ctx) error {
	ctx := c.Context()

	names, err := s.registry.Names(ctx)
	if err != nil {
		s.logger.Error("failed to list knowledge bases", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list knowledge bases"})
	}

	summaries := make([]KnowledgeBaseSummary, 0, len(names))
	for _, name := range names {
		h, err := s.registry.Resolve(ctx, name)
		if err != nil {
			s.logger.Warn("skipping unresolvable knowledge base",
				zap.String("kb", name),
				zap.Error(err),
			)
			continue
		}

		state, err := h.State(ctx)
		if err != nil {
			s.logger.Warn("skipping knowledge base without state",
				zap.String("kb", name),
				zap.Error(err),
			)
			continue
		}

		summaries = append(summaries, KnowledgeBaseSummary{
			Name:           name,
			TotalItems:     state.TotalItems,
			TotalMastered:  state.TotalMastered,
			RemainingItems: state.RemainingItems,
		})
	}

	return c.JSON(map[string]any{
		"count":          len(summaries),
		"knowledgeBases": summaries,
	})
}
