package cli

import (
	"github.com/spf13/cobra"

	"github.com/devcontools/devcon/internal/ui"
)

func init() {
	rootCmd.AddCommand(createCmd)
	addLaunchFlags(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a persistent environment container",
	Long: `Create a named environment container that stays up in the background
so exec can enter it repeatedly. Fails if a container for the same
(user, alias, name) already exists.

Examples:
  devcon create -d qx
  devcon create -d yocto_dunfell -n release-build
  devcon create -p registry.example.com/custom/env -v 2.0`,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
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

	name, err := mgr.Create(ctx, opts)
	if err != nil {
		return err
	}

	ui.Success("created %s", name)
	return nil
}
