package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/malikusman1115/shopify-automation/api"
	"github.com/malikusman1115/shopify-automation/config"
	"github.com/malikusman1115/shopify-automation/pipeline"
	"github.com/malikusman1115/shopify-automation/rewriter"
	"github.com/malikusman1115/shopify-automation/shopify"
	"github.com/malikusman1115/shopify-automation/store"
)

func main() {
	ctx := context.Background()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	// Getting the config
	config := config.New()

	// Database initialization
	store, err := store.New(ctx, config.Dsn())
	if err != nil {
		logger.Error("Database initialization failed", "error", err)
		panic(err)
	}

	client := shopify.NewClient(shopify.ClientOptions{
		UserAgent:         config.UserAgent,
		AccessToken:       config.ShopifyToken,
		RequestsPerSecond: config.ScrapeRPS(),
		Logger:            logger,
	})
	rephraser := rewriter.New(config.OpenAIModel, logger)
	pipe := pipeline.New(store, client, rephraser, logger)

	// Running the server
	api, err := api.New(store, pipe)
	if err != nil {
		logger.Error("Api initialization failed", "error", err)
		panic(err)
	}
	api.Run(config.ServerPort())
}
