package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vocero-ai/vocero"
	"github.com/vocero-ai/vocero/config"
	"github.com/vocero-ai/vocero/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the conversation engine HTTP server",
	Long:  `Starts the chat completions endpoint voice platforms call once per caller turn.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false).WithComponent("server")
		engine, err := vocero.New(cfg, func(o *vocero.Options) {
			o.Logger = logger
		})
		if err != nil {
			fmt.Printf("Error initializing vocero: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: engine.Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Vocero server", "addr", cfg.Addr, "provider", cfg.Provider)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Shutting down", "signal", sig.String())

			// Give in-flight turns a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error closing server", "error", err)
				}
			}
			logger.Info("Vocero server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides VOCERO_ADDR)")
}
