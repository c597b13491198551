package cli

import (
	"github.com/spf13/cobra"

	"github.com/devcontools/devcon/internal/session"
)

func init() {
	rootCmd.AddCommand(execCmd)
	addExecFlags(execCmd)
}

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Run a command in an existing environment container",
	Long: `Run a command, or an interactive shell, inside an existing container
matching the (user, alias, name) identity. A stopped container is
started first. The command runs as your uid:gid, not root.

Examples:
  devcon exec -d qx                 # Interactive shell
  devcon exec -d qx -c "pytest -x"  # One command
  devcon exec -d qx -c "bitbake core-image-minimal" -b`,
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	opts := gatherOptions(cmd)
	if err := requireSelection(cmd, opts); err != nil {
		return err
	}

	mgr, client, err := newSession(ctx, opts.Batch)
	if err != nil {
		return err
	}
	defer client.Close()

	code, err := mgr.Exec(ctx, opts)
	if err != nil {
		return err
	}
	if code != 0 {
		return &session.ExitError{Code: code}
	}
	return nil
}
