package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cosmicscale.

To load completions:

Bash:
  $ source <(cosmicscale completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cosmicscale completion bash > /etc/bash_completion.d/cosmicscale
  # macOS:
  $ cosmicscale completion bash > $(brew --prefix)/etc/bash_completion.d/cosmicscale

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cosmicscale completion zsh > "${fpath[1]}/_cosmicscale"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ cosmicscale completion fish | source

  # To load completions for each session, execute once:
  $ cosmicscale completion fish > ~/.config/fish/completions/cosmicscale.fish

PowerShell:
  PS> cosmicscale completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> cosmicscale completion powershell > cosmicscale.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout(cmd))
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout(cmd))
			case "fish":
				return cmd.Root().GenFishCompletion(stdout(cmd), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout(cmd))
			}
			return nil
		},
	}

	return cmd
}
