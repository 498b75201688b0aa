// Package usecmder provides the use subcommand for selecting the active
// knowledge base.
package usecmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quizfolkco/rote/pkg/config"
	"github.com/quizfolkco/rote/pkg/dotdir"
	"github.com/quizfolkco/rote/pkg/logger"
	"github.com/quizfolkco/rote/pkg/review"
	"github.com/quizfolkco/rote/pkg/utils"
)

type useCommander struct {
	name      string
	api       string
	configDir string
	debug     bool

	logger *zap.Logger
}

const useLongDesc string = `Select the active knowledge base for review.

Validates the knowledge base against a running rote server and saves it
as the session default, so commands that omit a name drill this
knowledge base.

If no name is provided, clears the session so no knowledge base is
active.

Examples:
  rote use capitals      Drill the capitals knowledge base
  rote use               Clear the active knowledge base`

const useShortDesc string = "Select the active knowledge base"

func NewUseCmd() *cobra.Command {
	cmder := &useCommander{}

	cmd := &cobra.Command{
		Use:   "use [kb]",
		Short: useShortDesc,
		Long:  useLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cmder.name = args[0]
			}

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.api)

	return cmd
}

func (c *useCommander) run(ctx context.Context) error {
	manager := dotdir.NewManager()
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	// If no name provided, clear the session
	if c.name == "" {
		if err := manager.ClearSession(c.configDir); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println("Session cleared. No knowledge base is active.")
		return nil
	}

	c.logger.Debug("selecting knowledge base",
		zap.String("kb", c.name),
		zap.String("api", c.api),
	)

	// Validate the knowledge base against the running server
	state, err := c.fetchState(ctx, c.name)
	if err != nil {
		return fmt.Errorf("fetching session state: %w", err)
	}

	if err := manager.SaveSession(&dotdir.SessionState{KnowledgeBase: c.name}, c.configDir); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("Using %s (%d items, %d remaining, %d mastered)\n",
		c.name, state.TotalItems, state.RemainingItems, state.TotalMastered)
	if state.NextItem != nil {
		fmt.Printf("  next: %s\n", utils.Truncate(state.NextItem.Question, 60))
	}

	return nil
}

// fetchState calls the API for the current session state of a knowledge base.
func (c *useCommander) fetchState(ctx context.Context, name string) (*review.Result, error) {
	url := fmt.Sprintf("%s/api/review/state/%s", c.api, name)

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting session state from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading API response: %w", err)
	}

	var state review.Result
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("parsing API response: %w", err)
	}

	return &state, nil
}
