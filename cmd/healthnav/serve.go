package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gyeh/healthnav/internal/exitcode"
	"github.com/gyeh/healthnav/internal/logging"
	"github.com/gyeh/healthnav/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the views over HTTP",
	RunE:  runServe,
}

var listenAddr string

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := connect(ctx, log)
	defer pool.Close()

	srv := server.New(newService(pool, log), log)
	if err := srv.Start(ctx, cfg.ListenAddr); err != nil {
		log.Error().Err(err).Msg("server failed")
		pool.Close()
		os.Exit(exitcode.ServeError)
	}
	return nil
}
