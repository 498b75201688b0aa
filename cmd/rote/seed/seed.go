package seedcmder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizfolkco/rote/pkg/cliui"
	"github.com/quizfolkco/rote/pkg/config"
	"github.com/quizfolkco/rote/pkg/dotdir"
	"github.com/quizfolkco/rote/pkg/kb"
	"github.com/quizfolkco/rote/pkg/utils"
)

const seedLongDesc string = `Seed a demo knowledge base.

Writes a small starter deck of question/answer items into the knowledge
directory so a fresh install has something to review.

Examples:
  rote seed
  rote seed --name capitals
  rote seed --knowledge-dir ./knowledge
  rote seed --overwrite`

const seedShortDesc string = "Seed a demo knowledge base"

type seedCommander struct {
	name         string
	knowledgeDir string
	overwrite    bool
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.name, "name", "n", kb.DefaultDemoName, "Name for the seeded knowledge base")
	cmd.Flags().BoolVarP(&cmder.overwrite, "overwrite", "f", false, "Replace the knowledge base if it already exists")
	config.AddStringFlag(cmd, config.Flags, config.FlagKnowledgeDir, &cmder.knowledgeDir)

	return cmd
}

func (c *seedCommander) run(configDir string) error {
	dir, err := c.resolveKnowledgeDir(configDir)
	if err != nil {
		return err
	}

	catalog, err := kb.NewCatalog(dir)
	if err != nil {
		return fmt.Errorf("opening knowledge catalog: %w", err)
	}

	var itemCount int
	if err := cliui.Step(os.Stdout, "Seeding demo knowledge base", func() error {
		var seedErr error
		itemCount, seedErr = kb.SeedDemo(catalog, c.name, c.overwrite)
		return seedErr
	}); err != nil {
		return err
	}

	fmt.Printf("\n  %s Seeded %s %s into %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(c.name),
		cliui.DimStyle.Render(fmt.Sprintf("(%d %s)", itemCount, utils.Pluralize(itemCount, "item"))),
		cliui.DimStyle.Render(dir),
	)
	return nil
}

// resolveKnowledgeDir picks the knowledge directory: the flag when set,
// then the config file, then knowledge/ under the resolved .rote/ directory.
func (c *seedCommander) resolveKnowledgeDir(configDir string) (string, error) {
	if strings.TrimSpace(c.knowledgeDir) != "" {
		return c.knowledgeDir, nil
	}

	if cfger, err := config.NewConfiger(configDir); err == nil {
		if cfg, loadErr := cfger.LoadConfig(); loadErr == nil && cfg.Paths.KnowledgeDir != "" {
			return cfg.Paths.KnowledgeDir, nil
		}
	}

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return "", fmt.Errorf("resolving rote directory: %w", err)
	}

	return filepath.Join(target, "knowledge"), nil
}
