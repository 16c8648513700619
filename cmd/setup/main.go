package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
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

	color.New(color.FgGreen, color.BgBlack).Println("🌟 ELASTICSEARCH CHUNKING STRATEGY DEMO 🌟")
	color.Green("%s\n", strings.Repeat("=", 50))

	uploaded, err := c.Provision(ctx, demo.Entities)
	if err != nil {
		log.Fatalf("Failed to set up index: %v", err)
	}

	color.Green("\n✨ Set up completed! %d of %d articles uploaded", uploaded, len(demo.Entities))
}
