// Package statuscmder provides the status command for displaying progress in
// the active knowledge base.
package statuscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quizfolkco/rote/pkg/cliui"
	"github.com/quizfolkco/rote/pkg/config"
	"github.com/quizfolkco/rote/pkg/dotdir"
	"github.com/quizfolkco/rote/pkg/logger"
	"github.com/quizfolkco/rote/pkg/review"
	"github.com/quizfolkco/rote/pkg/utils"
)

type statusCommander struct {
	api       string
	configDir string
	debug     bool

	logger *zap.Logger
}

const statusLongDesc string = `Show progress for the active knowledge base.

Reads the local .rote/ directory (or ~/.rote/) for the active knowledge
base and asks a running rote server for its session state: item counts,
mastery progress, and the next item due for review.

If no knowledge base is active, indicates how to select one.

Examples:
  rote status`

const statusShortDesc string = "Show progress for the active knowledge base"

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

func (c *statusCommander) run(ctx context.Context) error {
	manager := dotdir.NewManager()
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	state, err := manager.LoadSessionState(c.configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}

	if state == nil {
		fmt.Printf("  %s No active knowledge base. Run rote use <kb> to select one.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Printf("\n  %s  %s\n", cliui.KeyStyle.Render("Knowledge base:"), cliui.NameStyle.Render(state.KnowledgeBase))

	res, err := c.fetchState(ctx, state.KnowledgeBase)
	if err != nil {
		// Status stays useful without a running server.
		c.logger.Debug("fetching session state failed", zap.Error(err))
		fmt.Printf("  %s\n\n", cliui.WarnStyle.Render("Could not reach the rote server. Is rote serve running?"))
		return nil
	}

	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Items:         "), cliui.ValueStyle.Render(strconv.Itoa(res.TotalItems)))
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Mastered:      "), cliui.ValueStyle.Render(fmt.Sprintf("%d of %d", res.TotalMastered, res.TotalItems)))
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Remaining:     "), cliui.ValueStyle.Render(strconv.Itoa(res.RemainingItems)))

	if res.NextItem != nil {
		fmt.Printf("\n  %s %s\n\n", cliui.DimStyle.Render("next:"), utils.Truncate(res.NextItem.Question, 72))
	} else {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("All items reviewed. Nothing left in this session."))
	}

	return nil
}

// fetchState calls the API for the current session state of a knowledge base.
func (c *statusCommander) fetchState(ctx context.Context, name string) (*review.Result, error) {
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
