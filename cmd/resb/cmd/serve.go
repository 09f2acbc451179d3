package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/resb/internal/server"
	"github.com/msto63/resb/internal/watch"
	coreGrpc "github.com/msto63/resb/pkg/core/grpc"
	"github.com/msto63/resb/pkg/core/health"
	"github.com/msto63/resb/pkg/core/logging"
)

var (
	serveWatch  bool
	serveProbes []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve bundles over gRPC",
	Long: `Starts the resb.v1.ResourceService gRPC service on server.host:server.port
together with the standard gRPC health service.

With --watch (or watch.enabled) changes below data.dir drop every
cached bundle, so the next request reads the files again.

Examples:
  resb serve
  resb serve --dir ./bundles --watch --probe units`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload bundles when files change (default: watch.enabled)")
	serveCmd.Flags().StringSliceVar(&serveProbes, "probe", nil, "base names whose default bundle must open for the service to be healthy")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	logger := logging.Wrap(a.logger)
	coreGrpc.SetLogger(logger)

	checks := []health.Checker{health.DirCheck("bundle-dir", a.cfg.Data.Dir)}
	if a.db != nil {
		checks = append(checks, health.PingCheck("bundle-db", a.db.Ping))
	}
	for _, base := range serveProbes {
		base := base
		checks = append(checks, health.ProbeCheck("bundle:"+base, func(ctx context.Context) error {
			_, err := a.engine.OpenDefault(base)
			return err
		}))
	}

	cfg := server.DefaultConfig()
	cfg.GRPC = coreGrpc.ServerConfigFrom(a.cfg)
	cfg.CacheTTL = a.cfg.Server.CacheTTL.Duration
	cfg.Checks = checks
	cfg.Logger = logger

	srv, err := server.New(a.engine, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watching := a.cfg.Watch.Enabled
	if cmd.Flags().Changed("watch") {
		watching = serveWatch
	}
	if watching {
		w, err := watch.New(watch.Config{
			Dir:      a.cfg.Data.Dir,
			Debounce: a.cfg.Watch.Debounce.Duration,
			Filter:   isBundleFile,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx, func(names []string) {
				logger.Info("Bundle files changed", "files", names)
				srv.Reset()
			}); err != nil {
				logger.Error("Watcher stopped", "error", err)
			}
		}()
	}

	go srv.MonitorHealth(ctx, 30*time.Second)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Printf("%s serving %s on %s\n", titleStyle.Render("resb"), a.cfg.Data.Dir, a.cfg.ServerAddress())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	srv.Stop(stopCtx)
	return nil
}
