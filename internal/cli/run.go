package cli

import (
	"github.com/spf13/cobra"

	"github.com/devcontools/devcon/internal/session"
)

func init() {
	rootCmd.AddCommand(runCmd)
	addLaunchFlags(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an ephemeral environment container to completion",
	Long: `Create and run an environment container in one step. The container is
removed automatically when it exits and its exit code becomes devcon's
exit code. The same existence guard as create applies.

Examples:
  devcon run -d native_ubuntu_18_04 -c "make -j8" -b
  devcon run -d qx`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
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

	code, err := mgr.Run(ctx, opts)
	if err != nil {
		return err
	}
	if code != 0 {
		return &session.ExitError{Code: code}
	}
	return nil
}
