package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/resb/internal/pack"
	"github.com/msto63/resb/internal/watch"
	"github.com/msto63/resb/pkg/core/logging"
)

var (
	packXZ    bool
	packWatch bool
)

var packCmd = &cobra.Command{
	Use:   "pack SRC [OUT]",
	Short: "Convert text bundles to binary bundles",
	Long: `Converts every TOML/YAML bundle below SRC into a binary .res bundle
below OUT (default: data.dir). A top-level "%%Parent" string becomes the
explicit parent locale of the packed bundle.

With --watch, SRC is watched and changed files are packed again.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().BoolVar(&packXZ, "xz", false, "write xz compressed bundles (default: data.compressed)")
	packCmd.Flags().BoolVarP(&packWatch, "watch", "w", false, "repack when source files change")
}

func runPack(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	src, out := args[0], a.cfg.Data.Dir
	if len(args) == 2 {
		out = args[1]
	}
	opts := pack.Options{
		Compress: a.cfg.Data.Compressed,
		Logger:   a.logger,
	}
	if cmd.Flags().Changed("xz") {
		opts.Compress = packXZ
	}

	results, err := pack.Dir(src, out, opts)
	for _, r := range results {
		printPacked(r)
	}
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("%d bundles packed into %s", len(results), out)))

	if !packWatch {
		return nil
	}

	w, err := watch.New(watch.Config{
		Dir:      src,
		Debounce: a.cfg.Watch.Debounce.Duration,
		Filter: func(name string) bool {
			_, _, ok := pack.ParseName(name)
			return ok
		},
		Logger: logging.Wrap(a.logger),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx, func(names []string) {
		for _, name := range names {
			if _, err := os.Stat(filepath.Join(src, filepath.FromSlash(name))); os.IsNotExist(err) {
				removePacked(out, name, opts.Compress)
				continue
			}
			r, err := pack.File(src, out, name, opts)
			if err != nil {
				printError(err)
				continue
			}
			printPacked(r)
		}
	})
}

func printPacked(r pack.Result) {
	fmt.Printf("  %s %s %s\n", successStyle.Render("[+]"), r.Source, mutedStyle.Render("-> "+r.Target))
}

// removePacked deletes the binary bundle built from a source file that was removed
func removePacked(out, name string, compressed bool) {
	target, ok := pack.Target(name, compressed)
	if !ok {
		return
	}
	if err := os.Remove(filepath.Join(out, filepath.FromSlash(target))); err != nil && !os.IsNotExist(err) {
		printError(err)
		return
	}
	fmt.Printf("  %s %s\n", errorStyle.Render("[-]"), target)
}
