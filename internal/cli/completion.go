package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(completionCmd)
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for devcon.

To load completions in the current shell:

  source <(devcon completion bash)
  devcon completion fish | source

To install them permanently:

  devcon completion bash > /etc/bash_completion.d/devcon
  devcon completion zsh > "${fpath[1]}/_devcon"
  devcon completion fish > ~/.config/fish/completions/devcon.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		default:
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		}
	},
}
