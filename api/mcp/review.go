package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/quizfolkco/rote/pkg/eventstream"
	"github.com/quizfolkco/rote/pkg/review"
	"github.com/quizfolkco/rote/pkg/worker"
)

var (
	reviewStateToolName    = "review_state"
	reviewStateDescription = "Get the current review session for a knowledge base: the next item to quiz, the expected answer, and progress counters. Use this to pick up a session where it left off."

	reviewAnswerToolName    = "review_answer"
	reviewAnswerDescription = "Record the outcome of quizzing one item: recognized if the learner recalled it, forgotten if not. Updates the spaced repetition schedule, persists progress, and returns the next item to quiz."

	reviewResetToolName    = "review_reset"
	reviewResetDescription = "Discard all review progress for a knowledge base and start over with a fresh session. This cannot be undone."

	listKnowledgeBasesToolName    = "list_knowledge_bases"
	listKnowledgeBasesDescription = "List every known knowledge base with its item count and review progress."
)

// ReviewStateInput represents the input arguments for the review_state tool.
type ReviewStateInput struct {
	KnowledgeBase string `json:"kb" jsonschema:"the name of the knowledge base to inspect"`
}

// ReviewStateOutput represents the structured output of a review state query.
type ReviewStateOutput struct {
	KnowledgeBase string        `json:"kb"`
	State         review.Result `json:"state"`
}

// ReviewAnswerInput represents the input arguments for the review_answer tool.
type ReviewAnswerInput struct {
	KnowledgeBase string `json:"kb" jsonschema:"the name of the knowledge base being reviewed"`
	ItemID        string `json:"itemId" jsonschema:"the id of the item that was quizzed"`
	Outcome       string `json:"outcome" jsonschema:"the review outcome: recognized or forgotten"`
}

// ReviewAnswerOutput represents the structured output of a recorded answer.
type ReviewAnswerOutput struct {
	KnowledgeBase string        `json:"kb"`
	ItemID        string        `json:"itemId"`
	Outcome       string        `json:"outcome"`
	State         review.Result `json:"state"`
}

// ReviewResetInput represents the input arguments for the review_reset tool.
type ReviewResetInput struct {
	KnowledgeBase string `json:"kb" jsonschema:"the name of the knowledge base to reset"`
}

// ReviewResetOutput represents the structured output of a reset.
type ReviewResetOutput struct {
	KnowledgeBase string        `json:"kb"`
	State         review.Result `json:"state"`
}

// ListKnowledgeBasesInput represents the (empty) input for the
// list_knowledge_bases tool.
type ListKnowledgeBasesInput struct{}

// KnowledgeBaseInfo is one entry in the knowledge base listing.
type KnowledgeBaseInfo struct {
	Name           string `json:"name"`
	TotalItems     int    `json:"totalItems"`
	TotalMastered  int    `json:"totalMastered"`
	RemainingItems int    `json:"remainingItems"`
}

// ListKnowledgeBasesOutput represents the output of the listing tool.
type ListKnowledgeBasesOutput struct {
	Count          int                 `json:"count"`
	KnowledgeBases []KnowledgeBaseInfo `json:"knowledgeBases"`
}

// handleReviewState processes a review state request via MCP.
func (s *Server) handleReviewState(ctx context.Context, _ *mcp.CallToolRequest, input ReviewStateInput) (*mcp.CallToolResult, ReviewStateOutput, error) {
	logger := s.config.Logger

	if input.KnowledgeBase == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "kb is required"},
			},
		}, ReviewStateOutput{}, nil
	}

	logger.Debug("MCP review state request",
		zap.String("kb", input.KnowledgeBase),
	)

	h, err := s.config.Registry.Resolve(ctx, input.KnowledgeBase)
	if err != nil {
		logger.Error("failed to resolve knowledge base", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Knowledge base lookup failed: %v", err)},
			},
		}, ReviewStateOutput{}, nil
	}

	state, err := h.State(ctx)
	if err != nil {
		logger.Error("failed to read session state", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Reading session state failed: %v", err)},
			},
		}, ReviewStateOutput{}, nil
	}

	output := ReviewStateOutput{
		KnowledgeBase: input.KnowledgeBase,
		State:         state,
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal review state output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, ReviewStateOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

// handleReviewAnswer records a review outcome via MCP.
func (s *Server) handleReviewAnswer(ctx context.Context, _ *mcp.CallToolRequest, input ReviewAnswerInput) (*mcp.CallToolResult, ReviewAnswerOutput, error) {
	logger := s.config.Logger

	if input.KnowledgeBase == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "kb is required"},
			},
		}, ReviewAnswerOutput{}, nil
	}
	if input.ItemID == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "itemId is required"},
			},
		}, ReviewAnswerOutput{}, nil
	}

	outcome, err := review.ParseOutcome(input.Outcome)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: err.Error()},
			},
		}, ReviewAnswerOutput{}, nil
	}

	logger.Debug("MCP review answer",
		zap.String("kb", input.KnowledgeBase),
		zap.String("item_id", input.ItemID),
		zap.String("outcome", outcome.String()),
	)

	h, err := s.config.Registry.Resolve(ctx, input.KnowledgeBase)
	if err != nil {
		logger.Error("failed to resolve knowledge base", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Knowledge base lookup failed: %v", err)},
			},
		}, ReviewAnswerOutput{}, nil
	}

	state, err := h.HandleAction(ctx, input.ItemID, outcome)
	if err != nil {
		logger.Error("failed to record review", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Recording the review failed: %v", err)},
			},
		}, ReviewAnswerOutput{}, nil
	}

	s.publishReview(input.KnowledgeBase, input.ItemID, outcome, state)

	output := ReviewAnswerOutput{
		KnowledgeBase: input.KnowledgeBase,
		ItemID:        input.ItemID,
		Outcome:       outcome.String(),
		State:         state,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal review answer output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, ReviewAnswerOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

// handleReviewReset discards review progress via MCP.
func (s *Server) handleReviewReset(ctx context.Context, _ *mcp.CallToolRequest, input ReviewResetInput) (*mcp.CallToolResult, ReviewResetOutput, error) {
	logger := s.config.Logger

	if input.KnowledgeBase == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "kb is required"},
			},
		}, ReviewResetOutput{}, nil
	}

	logger.Debug("MCP review reset",
		zap.String("kb", input.KnowledgeBase),
	)

	h, err := s.config.Registry.Resolve(ctx, input.KnowledgeBase)
	if err != nil {
		logger.Error("failed to resolve knowledge base", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Knowledge base lookup failed: %v", err)},
			},
		}, ReviewResetOutput{}, nil
	}

	if err := h.Reset(ctx); err != nil {
		logger.Error("failed to reset knowledge base", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Reset failed: %v", err)},
			},
		}, ReviewResetOutput{}, nil
	}

	state, err := h.State(ctx)
	if err != nil {
		logger.Error("failed to read session state", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Reading session state failed: %v", err)},
			},
		}, ReviewResetOutput{}, nil
	}

	output := ReviewResetOutput{
		KnowledgeBase: input.KnowledgeBase,
		State:         state,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal review reset output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, ReviewResetOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

// handleListKnowledgeBases lists every knowledge base via MCP.
func (s *Server) handleListKnowledgeBases(ctx context.Context, _ *mcp.CallToolRequest, _ ListKnowledgeBasesInput) (*mcp.CallToolResult, ListKnowledgeBasesOutput, error) {
	logger := s.config.Logger

	names, err := s.config.Registry.Names(ctx)
	if err != nil {
		logger.Error("failed to list knowledge bases", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Listing knowledge bases failed: %v", err)},
			},
		}, ListKnowledgeBasesOutput{}, nil
	}

	infos := make([]KnowledgeBaseInfo, 0, len(names))
	for _, name := range names {
		h, err := s.config.Registry.Resolve(ctx, name)
		if err != nil {
			logger.Warn("skipping unresolvable knowledge base",
				zap.String("kb", name),
				zap.Error(err),
			)
			continue
		}

		state, err := h.State(ctx)
		if err != nil {
			logger.Warn("skipping knowledge base without state",
				zap.String("kb", name),
				zap.Error(err),
			)
			continue
		}

		infos = append(infos, KnowledgeBaseInfo{
			Name:           name,
			TotalItems:     state.TotalItems,
			TotalMastered:  state.TotalMastered,
			RemainingItems: state.RemainingItems,
		})
	}

	output := ListKnowledgeBasesOutput{
		Count:          len(infos),
		KnowledgeBases: infos,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal listing output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, ListKnowledgeBasesOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

// publishReview hands a recorded review off to the async publish pool.
func (s *Server) publishReview(name, itemID string, outcome review.Outcome, res review.Result) {
	if s.config.Pool == nil {
		return
	}

	event := eventstream.NewReviewRecordedEvent(name, itemID, outcome.String(), eventstream.ReviewResultMeta{
		TotalMastered:  res.TotalMastered,
		RemainingItems: res.RemainingItems,
		TotalItems:     res.TotalItems,
	})
	s.config.Pool.Enqueue(worker.Job{Event: event})
}
