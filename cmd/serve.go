package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shop-scout/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP server exposing the pipeline: per-stage endpoints, a
composite session endpoint with suspend/resume, a websocket session
endpoint, and feedback routes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		deps, err := buildDeps(ctx, cfg, database)
		if err != nil {
			return err
		}

		if products, err := deps.Catalog.Load(ctx); err == nil {
			if err := deps.Finder.Index(ctx, products); err != nil && verbose {
				fmt.Fprintf(os.Stderr, "Warning: indexing catalog: %v\n", err)
			}
		}

		srv := server.New(server.Config{
			Port:       cfg.Server.Port,
			AllowAll:   cfg.Server.AllowAll,
			CycleLimit: cfg.CycleLimit,
		}, database, deps, deps.Feedback)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
			fmt.Fprintln(os.Stderr, "shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
