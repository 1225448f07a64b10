package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rectgroup.

To load completions:

Bash:
  $ source <(rectgroup completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ rectgroup completion bash > /etc/bash_completion.d/rectgroup
  # macOS:
  $ rectgroup completion bash > $(brew --prefix)/etc/bash_completion.d/rectgroup

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ rectgroup completion zsh > "${fpath[1]}/_rectgroup"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ rectgroup completion fish | source

  # To load completions for each session, execute once:
  $ rectgroup completion fish > ~/.config/fish/completions/rectgroup.fish

PowerShell:
  PS> rectgroup completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> rectgroup completion powershell > rectgroup.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
