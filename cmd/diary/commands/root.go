// ABOUTME: Root command and global flags for the diary CLI
// ABOUTME: Wires voice, text, list, search, mcp and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat = "auto"
)

const banner = `
 ██████╗ ██╗ █████╗ ██████╗ ██╗   ██╗
 ██╔══██╗██║██╔══██╗██╔══██╗╚██╗ ██╔╝
 ██║  ██║██║███████║██████╔╝ ╚████╔╝
 ██║  ██║██║██╔══██║██╔══██╗  ╚██╔╝
 ██████╔╝██║██║  ██║██║  ██║   ██║
 ╚═════╝ ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Spoken and typed daily diary with embeddings",
		Long: banner + `

Record a daily diary by answering four prompts (Today, Problems,
Findings, Questions), either by voice or by typing.

Voice answers are transcribed with OpenAI. Each finished diary is written
to log/YYYY_MM_DD.md with a sibling .json file holding its embedding,
which powers semantic search across past entries.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format for list and search (auto, table, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewVoiceCmd(),
		NewTextCmd(),
		NewListCmd(),
		NewSearchCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
