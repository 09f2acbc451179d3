package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/resb/pkg/bundle"
)

var backendCmd = &cobra.Command{
	Use:   "backend BASE",
	Short: "Show which backend serves a bundle",
	Long: `Probes the root bundle of BASE and reports "binary", "legacy" or
"missing".`,
	Args: cobra.ExactArgs(1),
	RunE: runBackend,
}

func init() {
	rootCmd.AddCommand(backendCmd)
	addRemoteFlags(backendCmd)
}

func runBackend(cmd *cobra.Command, args []string) error {
	var kind string

	if remoteAddr != "" {
		client, ctx, cancel, err := dialRemote()
		if err != nil {
			return err
		}
		defer cancel()
		defer client.Close()

		if kind, err = client.Backend(ctx, args[0]); err != nil {
			return err
		}
	} else {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		kind = a.engine.Backend(args[0]).String()
	}

	style := successStyle
	if kind == bundle.KindMissing.String() {
		style = errorStyle
	}
	fmt.Printf("%s %s\n", titleStyle.Render(args[0]), style.Render(kind))
	return nil
}
