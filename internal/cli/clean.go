package cli

import (
	"github.com/spf13/cobra"

	"github.com/devcontools/devcon/internal/ui"
)

func init() {
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Stop and remove all your environment containers",
	Long: `Stop and remove every container created by you. Failures on single
containers are reported and the rest of the batch still runs.`,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	mgr, client, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	defer client.Close()

	removed, err := mgr.Clean(ctx)
	if err != nil {
		return err
	}

	if removed == 0 {
		ui.Info("nothing to clean")
	} else {
		ui.Info("removed %d container(s)", removed)
	}
	return nil
}
