package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/msto63/resb/internal/server"
)

var (
	remoteAddr    string
	remoteTimeout time.Duration
	getDirect     bool
)

var getCmd = &cobra.Command{
	Use:   "get BASE LOCALE [PATH...]",
	Short: "Resolve a key path with locale fallback",
	Long: `Resolves a key path in a bundle and prints the value found.

Each path segment is a table key, or an index when the current
resource is an array. The bundle the value came from is shown, so
fallback to a less specific locale is visible.

Examples:
  resb get units fr_CA Meter
  resb get units de Prefix kilo
  resb get --remote localhost:9300 units fr Symbols 0`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	addRemoteFlags(getCmd)
	getCmd.Flags().BoolVar(&getDirect, "direct", false, "disable locale fallback")
}

func addRemoteFlags(c *cobra.Command) {
	c.Flags().StringVar(&remoteAddr, "remote", "", "query a resb server at this address instead of local files")
	c.Flags().DurationVar(&remoteTimeout, "timeout", 10*time.Second, "timeout for remote calls")
}

func runGet(cmd *cobra.Command, args []string) error {
	baseName, localeID, path := args[0], args[1], args[2:]

	var (
		base, found, kind string
		value             *structpb.Value
	)

	if remoteAddr != "" {
		client, ctx, cancel, err := dialRemote()
		if err != nil {
			return err
		}
		defer cancel()
		defer client.Close()

		get := client.Get
		if getDirect {
			get = client.GetDirect
		}
		res, err := get(ctx, baseName, localeID, path...)
		if err != nil {
			return err
		}
		base, found, kind, value = res.BaseName, res.Locale, res.Kind, res.Value
	} else {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		open := a.engine.Open
		if getDirect {
			open = a.engine.OpenDirect
		}
		n, err := open(baseName, localeID)
		if err != nil {
			return err
		}
		if n, err = n.GetPath(path...); err != nil {
			return err
		}
		if value, err = server.ToValue(n); err != nil {
			return err
		}
		base, found, kind = n.BaseName(), n.LocaleID(), n.Kind().String()
	}

	fmt.Fprintln(os.Stdout, describe(base, found, kind))
	renderValue(os.Stdout, value, 1)
	return nil
}

func dialRemote() (*server.Client, context.Context, context.CancelFunc, error) {
	client, err := server.Dial(remoteAddr, remoteTimeout)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	return client, ctx, cancel, nil
}
