package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your environment containers",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	mgr, client, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	defer client.Close()

	infos, err := mgr.List(ctx)
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Println("no containers")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "CONTAINER ID\tNAME\tIMAGE\tSTATUS")
	for _, info := range infos {
		id := info.ID
		if len(id) > 12 {
			id = id[:12]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, info.Name, info.Image, info.Status)
	}
	return w.Flush()
}
