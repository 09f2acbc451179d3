package cmd

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/internal/binres"
	"github.com/msto63/resb/internal/legacy"
	"github.com/msto63/resb/internal/source"
)

var importCmd = &cobra.Command{
	Use:   "import DIR",
	Short: "Copy bundle files into the SQLite store",
	Long: `Copies every bundle file below DIR into the SQLite store named by
--db or data.db_path, keyed by its relative name. Compressed files are
stored decompressed. Existing entries are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.db == nil {
		return resberror.New("no bundle store configured; use --db or data.db_path").
			WithCode(resberror.CodeInvalidConfig)
	}

	ctx := context.Background()
	dir := source.NewDir(args[0])
	count := 0
	err = dir.Walk(func(name string) error {
		if !isBundleFile(name) {
			return nil
		}
		data, err := source.ReadAll(dir, name)
		if err != nil {
			return err
		}
		if err := a.db.Put(ctx, name, data); err != nil {
			return err
		}
		count++
		fmt.Printf("  %s %s\n", successStyle.Render("[+]"), name)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("%d files imported into %s", count, a.cfg.Data.DBPath)))
	return nil
}

func isBundleFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == binres.Ext {
		return true
	}
	for _, e := range legacy.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
