package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys BASE LOCALE [PATH...]",
	Short: "List the keys of a bundle or nested table",
	Long: `Lists keys in sorted order. For a bundle root this includes the keys
inherited from every less specific locale.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	addRemoteFlags(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	baseName, localeID, path := args[0], args[1], args[2:]

	var keys []string
	if remoteAddr != "" {
		client, ctx, cancel, err := dialRemote()
		if err != nil {
			return err
		}
		defer cancel()
		defer client.Close()

		if keys, err = client.Keys(ctx, baseName, localeID, path...); err != nil {
			return err
		}
	} else {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.engine.Open(baseName, localeID)
		if err != nil {
			return err
		}
		if n, err = n.GetPath(path...); err != nil {
			return err
		}
		keys = n.KeySet()
	}

	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}
