package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/siherrmann/chunkcompare"
	"github.com/siherrmann/chunkcompare/corpus"
	"github.com/siherrmann/chunkcompare/helper"
)

func main() {
	if err := helper.LoadEnvFile(".env"); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}

	config, err := helper.NewServiceConfiguration()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	demo, err := corpus.Load(config.CorpusFile)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	c, err := chunkcompare.NewChunkCompare(config, nil)
	if err != nil {
		log.Fatalf("Failed to create chunkcompare: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.RunDemo(ctx, os.Stdout, demo.Queries); err != nil {
		log.Fatalf("Search failed: %v", err)
	}
}
