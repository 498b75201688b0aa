// Package rotecmder
package rotecmder

import (
	"github.com/spf13/cobra"

	versioncmder "github.com/quizfolkco/rote/cmd/version"

	configcmder "github.com/quizfolkco/rote/cmd/rote/config"
	initcmder "github.com/quizfolkco/rote/cmd/rote/init"
	seedcmder "github.com/quizfolkco/rote/cmd/rote/seed"
	servecmder "github.com/quizfolkco/rote/cmd/rote/serve"
	statuscmder "github.com/quizfolkco/rote/cmd/rote/status"
	usecmder "github.com/quizfolkco/rote/cmd/rote/use"
)

const roteLongDesc string = `Rote is spaced repetition infrastructure for agents.

Run the server using:
  rote serve           Run the review API and MCP server

Manage knowledge bases and sessions:
  rote seed            Seed the demo knowledge base
  rote use <kb>        Select the active knowledge base
  rote status          Show progress for the active knowledge base`

const roteShortDesc string = "Rote - Spaced Repetition for Agents"

func NewRoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rote",
		Short: roteShortDesc,
		Long:  roteLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .rote/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(usecmder.NewUseCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
