package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/resb/foundation/core/log"
	"github.com/msto63/resb/internal/source"
	"github.com/msto63/resb/pkg/bundle"
	"github.com/msto63/resb/pkg/core/config"
	"github.com/msto63/resb/pkg/core/logging"
)

var (
	cfgFile string
	dataDir string
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "resb",
	Short: "resb - locale-aware resource bundles",
	Long: `resb loads hierarchical resource bundles with locale fallback.

A lookup in fr_CA that misses continues in fr and then in the root bundle.
Bundles are read from a directory (binary .res files, optionally xz
compressed, or TOML/YAML text bundles) and an optional SQLite store.

Commands:
  get      - resolve a key path
  keys     - list the keys of a bundle or table
  backend  - show which backend serves a bundle
  pack     - convert text bundles to binary bundles
  import   - copy bundle files into the SQLite store
  serve    - serve bundles over gRPC
  browse   - explore a bundle interactively`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $RESB_CONFIG or ./configs/resb.toml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "bundle directory (overrides data.dir)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite bundle store (overrides data.db_path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if dbPath != "" {
		cfg.Data.DBPath = dbPath
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// app bundles what every local command needs
type app struct {
	cfg    *config.Config
	logger *log.Logger
	engine *bundle.Engine
	db     *source.SQLite
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(logging.FromConfig(cfg, cfg.General.Name))

	sources := source.Multi{source.NewDir(cfg.Data.Dir)}
	var db *source.SQLite
	if cfg.Data.DBPath != "" {
		db, err = source.NewSQLite(cfg.Data.DBPath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, db)
	}

	engine := bundle.New(bundle.Config{
		Source:        sources,
		DefaultLocale: cfg.General.DefaultLocale,
		MaxAliasDepth: cfg.Data.MaxAliasDepth,
		Logger:        logger,
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		engine: engine,
		db:     db,
	}, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WarnWithErr("failed to close bundle store", err)
		}
	}
}
