package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for artifactsmmo-agent.

The completion script provides:
- Command and subcommand completion
- Flag name completion
- Flag value completion for enum flags (e.g., --output)
- Dynamic completion of character names and action names

To load completions:

Bash:
  $ source <(artifactsmmo-agent completion bash)

  # To load completions for each session, execute once:
  $ artifactsmmo-agent completion bash > /etc/bash_completion.d/artifactsmmo-agent

Zsh:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ artifactsmmo-agent completion zsh > "${fpath[1]}/_artifactsmmo-agent"

Fish:
  $ artifactsmmo-agent completion fish | source

PowerShell:
  PS> artifactsmmo-agent completion powershell | Out-String | Invoke-Expression

Notes:
- Dynamic completions (character names) are cached locally for 5 minutes
- Cache location: ~/.artifactsmmo/cache/
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
