package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for mermaidboard.

To load completions:

Bash:
  $ source <(mermaidboard completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ mermaidboard completion bash > /etc/bash_completion.d/mermaidboard
  # macOS:
  $ mermaidboard completion bash > $(brew --prefix)/etc/bash_completion.d/mermaidboard

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ mermaidboard completion zsh > "${fpath[1]}/_mermaidboard"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ mermaidboard completion fish | source

  # To load completions for each session, execute once:
  $ mermaidboard completion fish > ~/.config/fish/completions/mermaidboard.fish

PowerShell:
  PS> mermaidboard completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> mermaidboard completion powershell > mermaidboard.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}
