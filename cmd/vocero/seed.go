package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vocero-ai/vocero"
	"github.com/vocero-ai/vocero/config"
	"github.com/vocero-ai/vocero/logging"
	"github.com/vocero-ai/vocero/router"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the intent route index",
	Long: `Embeds the example utterances of every route and upserts them into the
qdrant collection. Run once before serving, and again after changing routes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false).WithComponent("seeder")
		engine, err := vocero.New(cfg, func(o *vocero.Options) {
			o.Logger = logger
		})
		if err != nil {
			fmt.Printf("Error initializing vocero: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		routes := router.DefaultRoutes()
		total := 0
		for _, route := range routes {
			total += len(route.Utterances)
		}
		logger.Info("Seeding route index", "collection", cfg.QdrantCollection, "routes", len(routes), "utterances", total)

		if err := engine.SeedRoutes(ctx); err != nil {
			fmt.Printf("Error seeding routes: %v\n", err)
			os.Exit(1)
		}
		logger.Info("Route index seeded", "collection", cfg.QdrantCollection)

		// Smoke query against a seeded utterance.
		probe := routes[0].Utterances[0]
		if label, ok := engine.CheckIntent(ctx, probe); ok {
			logger.Info("Smoke query matched", "utterance", probe, "route", label)
		} else {
			logger.Warn("Smoke query did not match; check the embedding model and threshold", "utterance", probe)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
