package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/streamstack/pkg/chart"
)

// completionCommand creates the shell completion command.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for streamstack.

To load completions:

Bash:
  $ source <(streamstack completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ streamstack completion bash > /etc/bash_completion.d/streamstack
  # macOS:
  $ streamstack completion bash > $(brew --prefix)/etc/bash_completion.d/streamstack

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ streamstack completion zsh > "${fpath[1]}/_streamstack"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ streamstack completion fish | source

  # To load completions for each session, execute once:
  $ streamstack completion fish > ~/.config/fish/completions/streamstack.fish

PowerShell:
  PS> streamstack completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> streamstack completion powershell > streamstack.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(stdout, true)
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

// completeModes completes chart mode names.
func completeModes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(chart.Modes))
	for i, m := range chart.Modes {
		names[i] = m.String()
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
